// Package session owns the lifecycle of a browser's HRMS session: hydrate
// from storage, login, in-place user updates, logout and forced teardown.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type Service struct {
	store storage.Storage
	authn Authenticator
	now   func() time.Time

	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(Event)
}

func NewService(store storage.Storage, authn Authenticator) *Service {
	return &Service{
		store:       store,
		authn:       authn,
		now:         time.Now,
		subscribers: map[int]func(Event){},
	}
}

// Subscribe registers fn for session events and returns a function that removes it.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Service) publish(kind EventKind, sessionID string) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(Event{Kind: kind, SessionID: sessionID})
	}
}

// Hydrate restores the session stored for sessionID. A missing token yields an
// unauthenticated state; a token whose JWT expiry has passed is torn down first.
func (s *Service) Hydrate(ctx context.Context, sessionID string) (State, error) {
	st := State{SessionID: sessionID}
	if sessionID == "" {
		return st, nil
	}
	token, err := s.store.Get(ctx, sessionID, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read session token: %w", err)
	}

	if auth.InspectToken(token).Expired(s.now()) {
		s.Invalidate(ctx, sessionID)
		return st, nil
	}

	st.Token = token
	st.Authenticated = true

	if raw, err := s.store.Get(ctx, sessionID, storage.KeyUser); err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &st.User); err != nil {
			slog.Warn("stored user is unreadable", "err", err)
		}
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return State{SessionID: sessionID}, fmt.Errorf("read session user: %w", err)
	}

	role, err := s.store.Get(ctx, sessionID, storage.KeyRole)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return State{SessionID: sessionID}, fmt.Errorf("read session role: %w", err)
	}
	st.Role = role
	if st.Role == "" {
		st.Role = st.User.Role
	}
	return st, nil
}

// Login authenticates and stores token, user and role. Authentication errors
// are returned unchanged.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (State, error) {
	if sessionID == "" {
		return State{}, ErrUnauthenticated
	}
	result, err := s.authn.Login(ctx, email, password)
	if err != nil {
		return State{SessionID: sessionID}, err
	}
	if !auth.IsKnownRole(result.User.Role) {
		// the session still opens; every role-gated page will refuse it
		slog.Warn("login with unknown role", "role", result.User.Role)
	}
	userJSON, err := json.Marshal(result.User)
	if err != nil {
		return State{SessionID: sessionID}, fmt.Errorf("encode user: %w", err)
	}
	for _, kv := range [][2]string{
		{storage.KeyToken, result.Token},
		{storage.KeyUser, string(userJSON)},
		{storage.KeyRole, result.User.Role},
	} {
		if err := s.store.Set(ctx, sessionID, kv[0], kv[1]); err != nil {
			s.clear(ctx, sessionID)
			return State{SessionID: sessionID}, fmt.Errorf("store session %s: %w", kv[0], err)
		}
	}
	s.publish(EventLogin, sessionID)
	return State{
		SessionID:     sessionID,
		Token:         result.Token,
		User:          result.User,
		Role:          result.User.Role,
		Authenticated: true,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID, storage.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.publish(EventLogout, sessionID)
	return nil
}

// Invalidate clears a session the backend no longer accepts. It never fails
// the caller; storage errors are logged.
func (s *Service) Invalidate(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	s.clear(ctx, sessionID)
	s.publish(EventInvalidated, sessionID)
}

// UpdateUser rewrites the stored user after a profile save. The role is kept.
func (s *Service) UpdateUser(ctx context.Context, sessionID string, user auth.User) error {
	if sessionID == "" {
		return ErrUnauthenticated
	}
	if _, err := s.store.Get(ctx, sessionID, storage.KeyToken); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("read session token: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, storage.KeyUser, string(data)); err != nil {
		return fmt.Errorf("store session user: %w", err)
	}
	s.publish(EventUserUpdated, sessionID)
	return nil
}

func (s *Service) clear(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, sessionID, storage.SessionKeys...); err != nil {
		slog.Warn("session clear failed", "err", err)
	}
}
