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

	"github.com/danielhkuo/livepoll/models"
)

// CreatePoll inserts a poll and all its options in one transaction.
// Partial creation is never observable: if any option insert fails the
// poll row rolls back with it.
func (s *PollStore) CreatePoll(ctx context.Context, question string, expiresAt *time.Time, options []string) (models.Poll, []models.Option, error) {
	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, poll.ID, poll.Question, poll.ExpiresAt, poll.CreatedAt)
	if err != nil {
		return models.Poll{}, nil, fmt.Errorf("failed to insert poll: %w", err)
	}

	created := make([]models.Option, 0, len(options))
	for _, text := range options {
		opt := models.Option{
			ID:     uuid.NewString(),
			PollID: poll.ID,
			Text:   text,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (id, poll_id, text)
			VALUES ($1, $2, $3)
		`, opt.ID, opt.PollID, opt.Text)
		if err != nil {
			return models.Poll{}, nil, fmt.Errorf("failed to insert option: %w", err)
		}
		created = append(created, opt)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, nil, fmt.Errorf("failed to commit poll: %w", err)
	}

	return poll, created, nil
}

// GetPoll returns a poll with its options by ID. Expired polls stay
// retrievable by direct lookup; only listing filters on expiry.
func (s *PollStore) GetPoll(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	var poll models.PollWithOptions
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, expires_at, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.ExpiresAt, &poll.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.PollWithOptions{}, ErrNotFound
	}
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("failed to query poll: %w", err)
	}

	poll.Options, err = s.pollOptions(ctx, poll.ID)
	if err != nil {
		return models.PollWithOptions{}, err
	}

	return poll, nil
}

// ListPolls returns every poll whose expiry is unset or after now,
// options included. Ordering is by creation time then ID, stable within
// one snapshot read.
func (s *PollStore) ListPolls(ctx context.Context, now time.Time) ([]models.PollWithOptions, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, expires_at, created_at
		FROM poll
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY created_at, id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.PollWithOptions{}
	for rows.Next() {
		var poll models.PollWithOptions
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.ExpiresAt, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}

	for i := range polls {
		polls[i].Options, err = s.pollOptions(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return polls, nil
}

func (s *PollStore) pollOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, text
		FROM option
		WHERE poll_id = $1
		ORDER BY id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return options, nil
}
