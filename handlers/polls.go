// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

type PollHandler struct {
	store *store.PollStore
	cfg   cliparse.Config
}

func NewPollHandler(store *store.PollStore, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: store, cfg: cfg}
}

// CreatePoll handles POST /polls (admin only)
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequestClaims(r, h.cfg.JWTSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err := auth.Authorize(claims, models.RoleAdmin); err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "No token")
			return
		}
		middleware.ErrorResponse(w, http.StatusForbidden, "Forbidden")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input before touching the store
	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll must have at least 2 options")
		return
	}
	for _, text := range req.Options {
		if text == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option text cannot be empty")
			return
		}
	}

	poll, options, err := h.store.CreatePoll(r.Context(), req.Question, req.ExpiresAt, req.Options)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	expires := "never"
	if poll.ExpiresAt != nil {
		expires = humanize.Time(*poll.ExpiresAt)
	}
	slog.Info("poll created",
		"poll_id", poll.ID,
		"created_by", claims.UserID,
		"options", len(options),
		"expires", expires,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		Poll:    poll,
		Options: options,
	})
}

// ListPolls handles GET /polls
// Expired polls are filtered here and only here; direct lookups by ID
// still see them.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPolls(r.Context(), time.Now().UTC())
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}
