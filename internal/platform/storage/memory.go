package storage

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	values    map[string]string
	updatedAt time.Time
}

type Memory struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{sessions: map[string]*memorySession{}, now: time.Now}
}

func (m *Memory) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	value, ok := sess.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(sessionID)
	sess.values[key] = value
	sess.updatedAt = m.now()
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(sess.values, key)
	}
	sess.updatedAt = m.now()
	return nil
}

func (m *Memory) Touch(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[sessionID]; ok {
		sess.updatedAt = m.now()
	}
	return nil
}

func (m *Memory) Sweep(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, sess := range m.sessions {
		if sess.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) session(sessionID string) *memorySession {
	sess, ok := m.sessions[sessionID]
	if !ok {
		sess = &memorySession{values: map[string]string{}}
		m.sessions[sessionID] = sess
	}
	return sess
}
