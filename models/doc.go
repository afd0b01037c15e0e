// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and the JSON request/response
types for the API.

# Domain Types

  - User: registered account with a bcrypt password hash and a Role
  - Poll: question with an optional expiry timestamp
  - Option: answer choice belonging to exactly one poll
  - Vote: one voter's choice; the voter identity key is never serialized

# Identity

Identity is the tagged uniqueness key for voting. A voter is either
Authenticated (token subject ID) or Anonymous (caller network address).
Identity.Key produces the string persisted in vote rows and covered by
the (poll_id, voter_identity) unique constraint.

# Conventions

JSON field names follow the frontend contract (camelCase). Sensitive
fields (password hashes, voter identity keys) carry `json:"-"`.
*/
package models
