// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/bus"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

type VotingHandler struct {
	store *store.PollStore
	cfg   cliparse.Config
	hub   *bus.Hub
}

func NewVotingHandler(store *store.PollStore, cfg cliparse.Config, hub *bus.Hub) *VotingHandler {
	return &VotingHandler{store: store, cfg: cfg, hub: hub}
}

// Vote handles POST /polls/:id/vote
//
// Identity resolution: a valid bearer token votes as that user; no
// token at all votes as the caller's network address. Anonymous
// callers behind one address therefore share a single vote per poll -
// a documented property of address identity, kept from the original
// policy.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	claims, err := auth.RequestClaims(r, h.cfg.JWTSecret)
	if err != nil {
		// A present-but-bad token is rejected rather than downgraded to
		// anonymous, so an expired session cannot spend the address's vote.
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "optionId is required")
		return
	}

	var identity models.Identity
	if claims != nil {
		identity = models.Authenticated(claims.UserID)
	} else {
		identity = models.Anonymous(middleware.GetClientIP(r))
	}

	vote, err := h.store.CastVote(r.Context(), pollID, req.OptionID, identity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll or option not found")
		return
	case errors.Is(err, store.ErrOptionMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option does not belong to this poll")
		return
	case errors.Is(err, store.ErrAlreadyVoted):
		// Expected rejection path, including client retries after a
		// timeout: the first attempt's row makes the retry idempotent.
		middleware.ErrorResponse(w, http.StatusBadRequest, "Already voted")
		return
	case err != nil:
		slog.Error("failed to insert vote", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	// Fire-and-forget: the vote row is the durable fact, the broadcast
	// only nudges watching clients to re-fetch.
	h.hub.Publish(pollID)

	slog.Info("vote cast",
		"poll_id", pollID,
		"option_id", req.OptionID,
		"authenticated", identity.IsAuthenticated(),
	)

	middleware.JSONResponse(w, http.StatusCreated, vote)
}
