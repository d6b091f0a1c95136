// Package notifications carries one-shot notices (flash messages) from an
// action or a redirect to the next rendered page.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/storage"
)

// Notice is rendered once and then discarded. Text, when set, is shown as is
// (typically a backend message); otherwise MessageID is translated with Data.
type Notice struct {
	Type      string         `json:"type"`
	Level     string         `json:"level"`
	MessageID string         `json:"messageId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Text      string         `json:"text,omitempty"`
	From      string         `json:"from,omitempty"`
}

func AccessDenied(path string) Notice {
	return Notice{
		Type:      TypeAccessDenied,
		Level:     LevelError,
		MessageID: "access_denied",
		Data:      map[string]any{"Path": path},
		From:      path,
	}
}

func Success(messageID string, data map[string]any) Notice {
	return Notice{Type: TypeActionResult, Level: LevelSuccess, MessageID: messageID, Data: data}
}

// Failure uses the backend's message when there is one.
func Failure(messageID, backendMessage string) Notice {
	return Notice{Type: TypeActionResult, Level: LevelError, MessageID: messageID, Text: backendMessage}
}

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Push(ctx context.Context, sessionID string, n Notice) error {
	if sessionID == "" {
		return nil
	}
	queued, err := s.load(ctx, sessionID)
	if err != nil {
		slog.Warn("notice load failed", "err", err)
		queued = nil
	}
	queued = append(queued, n)
	if len(queued) > maxQueued {
		queued = queued[len(queued)-maxQueued:]
	}
	data, err := json.Marshal(queued)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, sessionID, storage.KeyFlash, string(data))
}

// Drain returns every queued notice and clears the queue.
func (s *Service) Drain(ctx context.Context, sessionID string) []Notice {
	if sessionID == "" {
		return nil
	}
	raw, err := storage.Pop(ctx, s.store, sessionID, storage.KeyFlash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.Warn("notice drain failed", "err", err)
		return nil
	}
	queued, err := decode(raw)
	if err != nil {
		slog.Warn("notice decode failed", "err", err)
		return nil
	}
	return queued
}

func (s *Service) load(ctx context.Context, sessionID string) ([]Notice, error) {
	raw, err := s.store.Get(ctx, sessionID, storage.KeyFlash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw string) ([]Notice, error) {
	var queued []Notice
	if err := json.Unmarshal([]byte(raw), &queued); err != nil {
		return nil, err
	}
	return queued, nil
}
