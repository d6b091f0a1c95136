package storage

import (
	"context"
	"time"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/crypto"
)

// Sealed encrypts values before they reach the wrapped backend.
type Sealed struct {
	inner  Storage
	crypto *crypto.Service
}

func NewSealed(inner Storage, svc *crypto.Service) *Sealed {
	return &Sealed{inner: inner, crypto: svc}
}

func (s *Sealed) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.inner.Get(ctx, sessionID, key)
	if err != nil {
		return "", err
	}
	return s.crypto.OpenString(value)
}

func (s *Sealed) Set(ctx context.Context, sessionID, key, value string) error {
	sealed, err := s.crypto.SealString(value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, sessionID, key, sealed)
}

func (s *Sealed) Delete(ctx context.Context, sessionID string, keys ...string) error {
	return s.inner.Delete(ctx, sessionID, keys...)
}

func (s *Sealed) Touch(ctx context.Context, sessionID string) error {
	return s.inner.Touch(ctx, sessionID)
}

func (s *Sealed) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.inner.Sweep(ctx, cutoff)
}

func (s *Sealed) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
