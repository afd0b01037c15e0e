// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method patterns.

# Routes

	POST /auth/register        register an account
	POST /auth/login           log in, returns a bearer token
	POST /polls                create a poll (admin)
	GET  /polls                list unexpired polls
	GET  /polls/{id}           get a poll with options
	POST /polls/{id}/vote      cast a vote
	GET  /polls/{id}/results   aggregated tallies
	GET  /events               SSE poll-changed stream
	GET  /health               health check

The events route skips the request-logging wrapper because the
connection is long-lived; the handler logs open/close itself.
*/
package router
