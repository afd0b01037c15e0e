// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/livepoll/bus"
	"github.com/danielhkuo/livepoll/middleware"
)

// keepAliveInterval keeps idle SSE connections from being reaped by
// proxies between votes.
const keepAliveInterval = 30 * time.Second

type EventsHandler struct {
	hub *bus.Hub
}

func NewEventsHandler(hub *bus.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /events
//
// Server-sent event stream of pollUpdated events. The stream is a
// global broadcast; clients filter on the pollId they are viewing and
// re-fetch results. The subscription is scoped to the connection:
// acquired here, released on disconnect, error, or hub shutdown.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	slog.Info("event stream opened", "remote", r.RemoteAddr)
	defer slog.Info("event stream closed", "remote", r.RemoteAddr)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				// Hub shut down
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				slog.Error("failed to encode event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: pollUpdated\ndata: %s\n\n", data)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
