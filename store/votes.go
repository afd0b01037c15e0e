// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/models"
)

// CastVote records one vote for the identity on the poll.
//
// Duplicate prevention is the insert itself: the vote table's
// (poll_id, voter_identity) unique constraint rejects the second vote
// no matter how requests interleave. There is no existence pre-read for
// the identity, so two concurrent requests cannot both pass a check and
// both insert.
//
// Returns ErrNotFound for a missing poll or option, ErrOptionMismatch
// for an option from another poll, ErrAlreadyVoted on the constraint.
func (s *PollStore) CastVote(ctx context.Context, pollID, optionID string, identity models.Identity) (models.Vote, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)
	`, pollID).Scan(&exists)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query poll: %w", err)
	}
	if !exists {
		return models.Vote{}, ErrNotFound
	}

	var optionPollID string
	err = s.db.QueryRowContext(ctx, `
		SELECT poll_id FROM option WHERE id = $1
	`, optionID).Scan(&optionPollID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query option: %w", err)
	}
	if optionPollID != pollID {
		return models.Vote{}, ErrOptionMismatch
	}

	vote := models.Vote{
		ID:            uuid.NewString(),
		PollID:        pollID,
		OptionID:      optionID,
		VoterIdentity: identity.Key(),
		CastAt:        time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, option_id, voter_identity, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.PollID, vote.OptionID, vote.VoterIdentity, vote.CastAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Vote{}, ErrAlreadyVoted
		}
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	return vote, nil
}

// VoteCount returns the number of votes recorded for a poll.
func (s *PollStore) VoteCount(ctx context.Context, pollID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE poll_id = $1
	`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}
