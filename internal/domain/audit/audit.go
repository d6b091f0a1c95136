// Package audit keeps a short, in-process trail of session lifecycle events
// for operators. Session ids are shortened before they are kept or logged.
package audit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/session"
)

const DefaultCapacity = 200

type Event struct {
	Kind      string    `json:"kind"`
	SessionID string    `json:"sessionId"`
	At        time.Time `json:"at"`
}

type Filter struct {
	Kind  string
	Limit int
}

type Trail struct {
	mu       sync.Mutex
	capacity int
	events   []Event
	counts   map[string]int64
	now      func() time.Time
}

func New(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Trail{capacity: capacity, counts: map[string]int64{}, now: time.Now}
}

// Record is a session.Service subscriber.
func (t *Trail) Record(ev session.Event) {
	e := Event{Kind: string(ev.Kind), SessionID: shorten(ev.SessionID), At: t.now().UTC()}
	t.mu.Lock()
	t.events = append(t.events, e)
	if len(t.events) > t.capacity {
		t.events = t.events[len(t.events)-t.capacity:]
	}
	t.counts[e.Kind]++
	t.mu.Unlock()
	slog.Info("session event", "kind", e.Kind, "session", e.SessionID)
}

// List returns the newest events first.
func (t *Trail) List(f Filter) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Event
	for i := len(t.events) - 1; i >= 0; i-- {
		if f.Kind != "" && t.events[i].Kind != f.Kind {
			continue
		}
		out = append(out, t.events[i])
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func (t *Trail) Counts() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int64, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
