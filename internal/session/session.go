// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session carries per-requester quota state. A Session is a
// request-scoped value handed to the pipeline; a Tracker loads it before
// the request and persists what the request consumed afterwards.
package session

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/plagia/pkg/types"
)

// Session is one requester's usage against a limit.
type Session struct {
	ID    string
	Used  int
	Limit int

	consumed int
}

// Unlimited returns a session with no limit, used by the CLI.
func Unlimited() *Session {
	return &Session{ID: "local"}
}

// Remaining returns the analyses left. A zero Limit means unlimited.
func (s *Session) Remaining() int {
	if s == nil || s.Limit <= 0 {
		return math.MaxInt
	}
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// Consume records one analysis.
func (s *Session) Consume() {
	if s == nil {
		return
	}
	s.Used++
	s.consumed++
}

// Consumed returns the analyses recorded since the session was loaded.
func (s *Session) Consumed() int {
	if s == nil {
		return 0
	}
	return s.consumed
}

// Tracker persists sessions between requests.
type Tracker interface {
	Load(ctx context.Context, id string) (*Session, error)
	Commit(ctx context.Context, s *Session) error
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is usable as a session key: non-empty,
// bounded and free of whitespace.
func ValidID(id string) bool {
	return id != "" && len(id) <= 128 && !strings.ContainsAny(id, " \t\r\n")
}

// New returns the tracker selected by cfg.Backend. The redis tracker
// connects to redisURL.
func New(cfg types.QuotaConfig, redisURL, prefix string) (Tracker, error) {
	switch cfg.Backend {
	case types.CacheMemory, "", types.CacheNone:
		return NewMemory(cfg.Limit, cfg.TTL), nil
	case types.CacheRedis:
		return DialRedis(redisURL, prefix, cfg.Limit, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown quota backend %q: use memory or redis", cfg.Backend)
	}
}
