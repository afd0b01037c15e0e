// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/livepoll/models"
)

// Results computes per-option vote counts for a poll. Options with no
// votes appear with a zero count; totalVotes is the sum over options.
// Ties are reported as raw counts - the caller decides how to display
// multiple leaders. Percentages are left to the consumer, which also
// sidesteps the zero-total division case.
func (s *PollStore) Results(ctx context.Context, pollID string) (models.ResultsResponse, error) {
	var results models.ResultsResponse
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question FROM poll WHERE id = $1
	`, pollID).Scan(&results.ID, &results.Question)

	if errors.Is(err, sql.ErrNoRows) {
		return models.ResultsResponse{}, ErrNotFound
	}
	if err != nil {
		return models.ResultsResponse{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.text, COUNT(v.id)
		FROM option o
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.text
		ORDER BY o.id
	`, pollID)
	if err != nil {
		return models.ResultsResponse{}, fmt.Errorf("failed to query tallies: %w", err)
	}
	defer rows.Close()

	results.Options = []models.OptionResult{}
	for rows.Next() {
		var opt models.OptionResult
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.VoteCount); err != nil {
			return models.ResultsResponse{}, fmt.Errorf("failed to scan tally: %w", err)
		}
		results.Options = append(results.Options, opt)
		results.TotalVotes += opt.VoteCount
	}
	if err := rows.Err(); err != nil {
		return models.ResultsResponse{}, fmt.Errorf("failed to iterate tallies: %w", err)
	}

	return results, nil
}
