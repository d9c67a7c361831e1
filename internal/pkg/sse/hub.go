package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const subscriberBuffer = 16

// Event is one server-sent event. Data is JSON encoded on the wire.
type Event struct {
	ID   string
	Name string
	Data any
}

// WriteTo renders the event in text/event-stream framing.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return 0, fmt.Errorf("encode sse data: %w", err)
	}
	var n int
	if e.ID != "" {
		n, err = fmt.Fprintf(w, "id: %s\n", e.ID)
		if err != nil {
			return int64(n), err
		}
	}
	m, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, payload)
	return int64(n + m), err
}

// Hub fans events out to subscribers grouped by audience key
// (an employee id, or a role-wide key such as AdminsKey).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// AdminsKey addresses every connected admin.
const AdminsKey = "role:admin"

// EmployeeKey addresses the streams of one employee.
func EmployeeKey(employeeID string) string {
	return "employee:" + employeeID
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers one channel under every key and returns it with its cleanup.
func (h *Hub) Subscribe(keys ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	for _, key := range keys {
		if h.subscribers[key] == nil {
			h.subscribers[key] = make(map[chan Event]struct{})
		}
		h.subscribers[key][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, key := range keys {
				delete(h.subscribers[key], ch)
				if len(h.subscribers[key]) == 0 {
					delete(h.subscribers, key)
				}
			}
			close(ch)
		})
	}
	return ch, cleanup
}

// Publish delivers event once to each subscriber registered under any of keys.
// Full subscriber buffers drop the event instead of blocking the publisher.
func (h *Hub) Publish(event Event, keys ...string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[chan Event]struct{})
	delivered := 0
	for _, key := range keys {
		for ch := range h.subscribers[key] {
			if _, dup := seen[ch]; dup {
				continue
			}
			seen[ch] = struct{}{}
			select {
			case ch <- event:
				delivered++
			default:
			}
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers for a key
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}
