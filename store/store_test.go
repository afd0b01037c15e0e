// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "hash-1", models.RoleUser); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}

	_, err := s.CreateUser(ctx, "alice", "hash-2", models.RoleAdmin)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM users WHERE username = $1", "alice").Scan(&count); err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user row, got %d", count)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	_, err := s.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePoll_WithOptions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	expires := time.Now().UTC().Add(48 * time.Hour)
	poll, options, err := s.CreatePoll(ctx, "Pick a color", &expires, []string{"Red", "Blue", "Green"})
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}
	for _, opt := range options {
		if opt.PollID != poll.ID {
			t.Errorf("option %s has poll ID %s, want %s", opt.ID, opt.PollID, poll.ID)
		}
		if opt.Text == "" {
			t.Error("option persisted with empty text")
		}
	}

	got, err := s.GetPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPoll failed: %v", err)
	}
	if got.Question != "Pick a color" {
		t.Errorf("expected question 'Pick a color', got %q", got.Question)
	}
	if got.ExpiresAt == nil {
		t.Error("expected expiry to round-trip")
	}
	if len(got.Options) != 3 {
		t.Errorf("expected 3 options from GetPoll, got %d", len(got.Options))
	}
}

func TestCreatePoll_AtomicRollback(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	// Make the option insert fail partway through the transaction
	if _, err := conn.Exec("ALTER TABLE option RENAME TO option_hidden"); err != nil {
		t.Fatalf("failed to hide option table: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("ALTER TABLE option_hidden RENAME TO option")
	})

	_, _, err := s.CreatePoll(ctx, "Doomed poll", nil, []string{"A", "B", "C"})
	if err == nil {
		t.Fatal("expected CreatePoll to fail")
	}

	// The poll row must have rolled back with its options
	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM poll").Scan(&count); err != nil {
		t.Fatalf("failed to count polls: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no poll rows after rollback, got %d", count)
	}
}

func TestListPolls_FiltersExpired(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expiredID := testutil.CreateTestPoll(t, conn, "Expired poll", &past)
	openID := testutil.CreateTestPoll(t, conn, "Open poll", &future)
	foreverID := testutil.CreateTestPoll(t, conn, "No expiry", nil)
	testutil.AddTestOption(t, conn, openID, "Yes")
	testutil.AddTestOption(t, conn, openID, "No")

	polls, err := s.ListPolls(ctx, now)
	if err != nil {
		t.Fatalf("ListPolls failed: %v", err)
	}

	ids := map[string]bool{}
	for _, p := range polls {
		ids[p.ID] = true
	}
	if ids[expiredID] {
		t.Error("expired poll appeared in listing")
	}
	if !ids[openID] || !ids[foreverID] {
		t.Errorf("expected open and never-expiring polls in listing, got %v", ids)
	}

	for _, p := range polls {
		if p.ID == openID && len(p.Options) != 2 {
			t.Errorf("expected 2 options on listed poll, got %d", len(p.Options))
		}
	}

	// Expired polls remain retrievable by direct lookup
	if _, err := s.GetPoll(ctx, expiredID); err != nil {
		t.Errorf("expired poll should still be gettable by id: %v", err)
	}
}

func TestCastVote_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	pollID := testutil.CreateTestPoll(t, conn, "Pick one", nil)
	optA := testutil.AddTestOption(t, conn, pollID, "A")
	optB := testutil.AddTestOption(t, conn, pollID, "B")

	identity := models.Authenticated("user-1")

	vote, err := s.CastVote(ctx, pollID, optA, identity)
	if err != nil {
		t.Fatalf("first CastVote failed: %v", err)
	}
	if vote.PollID != pollID || vote.OptionID != optA {
		t.Errorf("vote references wrong poll/option: %+v", vote)
	}

	// Second vote, even for a different option, is rejected
	if _, err := s.CastVote(ctx, pollID, optB, identity); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("expected ErrAlreadyVoted for second vote, got %v", err)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = $1", pollID).Scan(&count); err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 vote row, got %d", count)
	}
}

func TestCastVote_Preconditions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	pollID := testutil.CreateTestPoll(t, conn, "Poll one", nil)
	optA := testutil.AddTestOption(t, conn, pollID, "A")
	otherPollID := testutil.CreateTestPoll(t, conn, "Poll two", nil)
	foreignOpt := testutil.AddTestOption(t, conn, otherPollID, "X")

	identity := models.Anonymous("203.0.113.5")

	tests := []struct {
		name     string
		pollID   string
		optionID string
		want     error
	}{
		{"missing poll", "no-such-poll", optA, ErrNotFound},
		{"missing option", pollID, "no-such-option", ErrNotFound},
		{"option from another poll", pollID, foreignOpt, ErrOptionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CastVote(ctx, tt.pollID, tt.optionID, identity); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCastVote_ExpiredPollStillVotable(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	pollID := testutil.CreateTestPoll(t, conn, "Expired but known", &past)
	opt := testutil.AddTestOption(t, conn, pollID, "A")

	// Expiry only hides a poll from listing; voting by id follows the
	// normal rules.
	if _, err := s.CastVote(ctx, pollID, opt, models.Authenticated("user-7")); err != nil {
		t.Errorf("vote on expired poll should succeed, got %v", err)
	}
}

// TestCastVote_ConcurrentSameIdentity is the TOCTOU race check: N
// simultaneous votes from one identity must produce exactly one row,
// with every loser seeing ErrAlreadyVoted.
func TestCastVote_ConcurrentSameIdentity(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	pollID := testutil.CreateTestPoll(t, conn, "Race poll", nil)
	options := []string{
		testutil.AddTestOption(t, conn, pollID, "A"),
		testutil.AddTestOption(t, conn, pollID, "B"),
	}

	identity := models.Authenticated("racer")
	const attempts = 10

	var successes, rejections, failures atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.CastVote(ctx, pollID, options[n%len(options)], identity)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				rejections.Add(1)
			default:
				failures.Add(1)
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("expected exactly 1 successful vote, got %d", successes.Load())
	}
	if rejections.Load() != attempts-1 {
		t.Errorf("expected %d AlreadyVoted rejections, got %d", attempts-1, rejections.Load())
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = $1", pollID).Scan(&count); err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 committed vote, got %d", count)
	}
}

func TestResults_TallyCorrectness(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	pollID := testutil.CreateTestPoll(t, conn, "Tally poll", nil)
	optA := testutil.AddTestOption(t, conn, pollID, "A")
	optB := testutil.AddTestOption(t, conn, pollID, "B")
	optC := testutil.AddTestOption(t, conn, pollID, "C")

	testutil.CastTestVote(t, conn, pollID, optA, models.Authenticated("u1"))
	testutil.CastTestVote(t, conn, pollID, optA, models.Authenticated("u2"))
	testutil.CastTestVote(t, conn, pollID, optB, models.Anonymous("203.0.113.1"))

	results, err := s.Results(ctx, pollID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	counts := map[string]int{}
	sum := 0
	for _, opt := range results.Options {
		counts[opt.ID] = opt.VoteCount
		sum += opt.VoteCount
	}

	if counts[optA] != 2 || counts[optB] != 1 || counts[optC] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if results.TotalVotes != 3 {
		t.Errorf("expected totalVotes 3, got %d", results.TotalVotes)
	}
	if sum != results.TotalVotes {
		t.Errorf("sum of option counts %d != totalVotes %d", sum, results.TotalVotes)
	}

	rowCount, err := s.VoteCount(ctx, pollID)
	if err != nil {
		t.Fatalf("VoteCount failed: %v", err)
	}
	if rowCount != results.TotalVotes {
		t.Errorf("vote rows %d != totalVotes %d", rowCount, results.TotalVotes)
	}
}

func TestResults_EmptyPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	pollID := testutil.CreateTestPoll(t, conn, "Nobody voted", nil)
	testutil.AddTestOption(t, conn, pollID, "A")
	testutil.AddTestOption(t, conn, pollID, "B")

	results, err := s.Results(context.Background(), pollID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	if results.TotalVotes != 0 {
		t.Errorf("expected totalVotes 0, got %d", results.TotalVotes)
	}
	if len(results.Options) != 2 {
		t.Fatalf("expected both options with zero counts, got %d", len(results.Options))
	}
	for _, opt := range results.Options {
		if opt.VoteCount != 0 {
			t.Errorf("option %s has count %d, want 0", opt.ID, opt.VoteCount)
		}
	}
}

func TestResults_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	if _, err := s.Results(context.Background(), "no-such-poll"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedUsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "users.yaml")
	seed := `users:
  - username: admin
    password: change-me
    role: admin
  - username: viewer
    password: secret
`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	if err := s.SeedUsers(ctx, path); err != nil {
		t.Fatalf("SeedUsers failed: %v", err)
	}

	admin, err := s.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %q", admin.Role)
	}

	viewer, err := s.GetUserByUsername(ctx, "viewer")
	if err != nil {
		t.Fatalf("seeded viewer missing: %v", err)
	}
	if viewer.Role != models.RoleUser {
		t.Errorf("role should default to user, got %q", viewer.Role)
	}

	// Seeding again is a no-op, not an error
	if err := s.SeedUsers(ctx, path); err != nil {
		t.Errorf("second SeedUsers run failed: %v", err)
	}
}
