// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the durable poll store: users, polls, options, votes.

# Operations

  - CreateUser / GetUserByUsername: account rows for the auth handlers
  - CreatePoll: poll plus all options in one transaction, all-or-nothing
  - GetPoll / ListPolls: reads; only ListPolls filters expired polls
  - CastVote: conditional vote insert keyed on (poll_id, voter_identity)
  - Results: per-option tallies and total for one poll
  - SeedUsers: YAML bootstrap accounts

# Vote Uniqueness

CastVote never pre-reads for an existing vote. The insert hits the
schema's unique constraint, and the driver's violation error maps to
ErrAlreadyVoted. That keeps the at-most-one-vote invariant correct under
concurrent requests from the same identity, where a check-then-insert
would race.

# Errors

Precondition failures return sentinel errors (ErrNotFound,
ErrAlreadyVoted, ErrUsernameTaken, ErrOptionMismatch) so handlers can
answer 404/400/conflict distinctly from internal store failures, which
come back wrapped.
*/
package store
