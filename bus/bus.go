// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bus

import "sync"

// Event is the broadcast payload: just the changed poll's ID. Clients
// filter by the poll they are watching and re-fetch results themselves.
type Event struct {
	PollID string `json:"pollId"`
}

// Hub fans a poll-changed signal out to every connected subscriber.
// It is global/broadcast: no per-poll filtering happens server-side.
//
// Delivery is best-effort. A vote is durable the moment it commits;
// the hub only shortens the time until watching clients re-query, so
// Publish never blocks and never reports failure to the voting path.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	closed      bool
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel
// plus a cancel function. Cancel is idempotent and must be called when
// the client disconnects; it closes the channel and never disturbs
// other subscribers.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish broadcasts a poll-changed event to all current subscribers.
// A subscriber whose buffer is full misses the event; it can always
// poll results directly.
func (h *Hub) Publish(pollID string) {
	event := Event{PollID: pollID}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close shuts the hub down and closes every subscriber channel.
// Publish and Subscribe become no-ops afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// SubscriberCount reports how many subscribers are connected.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
