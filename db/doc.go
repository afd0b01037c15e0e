// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Drivers

Open selects the driver from the configured database type:

  - sqlite (default): modernc.org/sqlite, pure Go, single pooled
    connection so concurrent writers queue instead of failing
  - postgres: github.com/lib/pq

Both drivers accept the $1-style placeholders used throughout the store.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: registered accounts with role and password hash
  - poll: question plus optional expiry
  - option: answer choices per poll
  - vote: one row per (poll, voter identity)

# Relationships

	poll 1──* option
	poll 1──* vote
	option 1──* vote

All foreign keys use ON DELETE CASCADE.

# Invariants

	users.username UNIQUE
	vote (poll_id, voter_identity) UNIQUE

The vote constraint is the serialization point for duplicate-vote
rejection; IsUniqueViolation classifies the resulting driver errors.
*/
package db
