// Package storage keeps the per-browser session values (token, user, role and
// the one-shot flash) that the portal holds on behalf of each browser.
package storage

import (
	"context"
	"errors"
	"time"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyRole  = "role"
	KeyFlash = "flash"
)

// SessionKeys are the keys cleared on logout and on invalidation.
var SessionKeys = []string{KeyToken, KeyUser, KeyRole}

var ErrNotFound = errors.New("storage: key not found")

type Storage interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	// Touch marks the session as active without changing any value.
	Touch(ctx context.Context, sessionID string) error
	// Sweep removes every session whose last activity is before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) (int64, error)
	Close(ctx context.Context) error
}

// KeyValue is the part of Storage that reads and clears single values.
type KeyValue interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// Pop reads a value and deletes it.
func Pop(ctx context.Context, s KeyValue, sessionID, key string) (string, error) {
	value, err := s.Get(ctx, sessionID, key)
	if err != nil {
		return "", err
	}
	if err := s.Delete(ctx, sessionID, key); err != nil {
		return "", err
	}
	return value, nil
}
