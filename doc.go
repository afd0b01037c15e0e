// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

Livepoll is a live polling service: admins create polls, anyone can
view them, registered users and anonymous callers vote (one vote per
identity per poll), and connected clients get a poll-changed push so
results views update in real time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:livepoll.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 5000 -d "file:livepoll.db" -jwt-secret "..."

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - JWT_SECRET (-jwt-secret): bearer token signing secret

Optional settings:

  - PORT (-p): server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - USERS_PATH (-users): YAML file of accounts to seed at startup

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, polls, voting, results, events)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: domain and request/response types
  - auth: password hashing, tokens, identity resolution
  - store: durable poll store with the vote-uniqueness constraint
  - bus: in-process poll-changed broadcast hub
  - db: drivers and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
