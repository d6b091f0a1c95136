package middleware

import (
	"errors"
	"net/http"
	"sync"
)

var ErrActionInFlight = errors.New("action already in progress for this session")

// InFlight rejects a second concurrent submit of the same action from the
// same browser session while the first is still talking to the backend.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{active: map[string]struct{}{}}
}

func inFlightKey(sessionID, action string) string {
	return sessionID + "|" + action
}

// Acquire claims action for sessionID. The returned release must be called
// once the action completes.
func (g *InFlight) Acquire(sessionID, action string) (func(), error) {
	key := inFlightKey(sessionID, action)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, ErrActionInFlight
	}
	g.active[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether action is currently claimed for sessionID.
func (g *InFlight) Busy(sessionID, action string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[inFlightKey(sessionID, action)]
	return busy
}

// Guard wraps a handler so that only one request per session runs action at
// a time. Rejected duplicates are served by onBusy.
func (g *InFlight) Guard(action string, onBusy http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := g.Acquire(GetSession(r.Context()).SessionID, action)
			if err != nil {
				onBusy.ServeHTTP(w, r)
				return
			}
			defer release()
			next.ServeHTTP(w, r)
		})
	}
}
