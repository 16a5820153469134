// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"sync"
	"time"
)

type usage struct {
	used    int
	expires time.Time
}

// Memory tracks sessions in process. A session's usage resets once TTL
// has elapsed since it was first charged.
type Memory struct {
	mu    sync.Mutex
	limit int
	ttl   time.Duration
	usage map[string]*usage
	now   func() time.Time
}

// NewMemory returns a Memory tracker with the given per-session limit.
func NewMemory(limit int, ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{limit: limit, ttl: ttl, usage: make(map[string]*usage), now: time.Now}
}

// Load implements Tracker.
func (m *Memory) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{ID: id, Limit: m.limit}
	if u := m.get(id); u != nil {
		s.Used = u.used
	}
	return s, nil
}

// Commit implements Tracker.
func (m *Memory) Commit(_ context.Context, s *Session) error {
	if s.Consumed() == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.get(s.ID)
	if u == nil {
		u = &usage{expires: m.now().Add(m.ttl)}
		m.usage[s.ID] = u
	}
	u.used += s.Consumed()
	s.consumed = 0
	return nil
}

// get returns live usage for id, dropping it when expired.
func (m *Memory) get(id string) *usage {
	u, ok := m.usage[id]
	if !ok {
		return nil
	}
	if !m.now().Before(u.expires) {
		delete(m.usage, id)
		return nil
	}
	return u
}
