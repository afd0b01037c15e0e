// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Handlers

  - AuthHandler: registration and login (token issuance)
  - PollHandler: admin poll creation, listing, lookup
  - VotingHandler: vote casting with identity resolution and the
    poll-changed broadcast
  - ResultsHandler: aggregated tallies
  - EventsHandler: the SSE live-update stream

All handlers receive their dependencies (store, config, hub) through
constructors; nothing is reached through package globals.

# Error Mapping

Store sentinel errors map to statuses at this boundary:

	store.ErrNotFound       → 404
	store.ErrAlreadyVoted   → 400 "Already voted"
	store.ErrOptionMismatch → 400
	store.ErrUsernameTaken  → 400 "Username already exists"
	auth.ErrInvalidToken    → 401
	auth.ErrForbidden       → 403
	anything else           → 500, details logged not surfaced
*/
package handlers
