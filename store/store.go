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

var (
	// ErrNotFound means the referenced poll, option, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyVoted means a vote for this (poll, identity) pair already
	// exists. This is the expected rejection path for duplicate votes.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrUsernameTaken means registration hit the username unique constraint.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrOptionMismatch means the option exists but belongs to a different poll.
	ErrOptionMismatch = errors.New("option does not belong to poll")
)

// PollStore is the durable store for users, polls, options, and votes.
// All write paths that have a uniqueness precondition go through a
// conditional insert backed by a schema constraint.
type PollStore struct {
	db *sql.DB
}

func New(db *sql.DB) *PollStore {
	return &PollStore{db: db}
}

// CreateUser inserts a new account with an already-hashed password.
func (s *PollStore) CreateUser(ctx context.Context, username, passwordHash string, role models.Role) (models.User, error) {
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Username, user.PasswordHash, user.Role, user.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// GetUserByUsername looks up an account for login.
func (s *PollStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}
