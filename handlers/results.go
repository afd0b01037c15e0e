// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/store"
)

type ResultsHandler struct {
	store *store.PollStore
}

func NewResultsHandler(store *store.PollStore) *ResultsHandler {
	return &ResultsHandler{store: store}
}

// GetResults handles GET /polls/:id/results
// Returns aggregated counts only; individual vote rows and voter
// identities are never exposed. A client that just voted may still see
// a snapshot from before its own vote if it queries before the commit's
// broadcast round-trip - results are eventually consistent reads.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	results, err := h.store.Results(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to aggregate results", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
