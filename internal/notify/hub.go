// Package notify publish/subscribe for entity changes. Views subscribe and
// re-fetch on notification instead of polling.
package notify

import (
	"context"
	"sync"
	"time"
)

// Action kind of write
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change a single entity write
type Change struct {
	Collection string    `json:"collection"`
	EntityID   string    `json:"entity_id"`
	Action     Action    `json:"action"`
	Revision   int64     `json:"revision,omitempty"`
	OperatorID string    `json:"operator_id,omitempty"` // operator the change concerns, if any
	At         time.Time `json:"at"`
	Origin     string    `json:"origin,omitempty"` // publishing instance
}

// Notifier is what write paths depend on
type Notifier interface {
	Notify(ctx context.Context, c Change)
}

// Nop discards every change
type Nop struct{}

func (Nop) Notify(context.Context, Change) {}

const defaultBuffer = 64

// Hub in-process fan-out. A subscriber that is not draining its channel
// misses changes instead of blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Change
	nextID uint64
	buffer int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Change), buffer: defaultBuffer}
}

// Subscribe returns a channel of changes and a cancel func that closes it
func (h *Hub) Subscribe() (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Change, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers c to every subscriber, returning how many received it
func (h *Hub) Publish(c Change) int {
	if c.At.IsZero() {
		c.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- c:
			delivered++
		default:
		}
	}
	return delivered
}

// Notify implements Notifier
func (h *Hub) Notify(_ context.Context, c Change) { h.Publish(c) }

// Subscribers current subscriber count
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
