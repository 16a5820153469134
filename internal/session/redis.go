// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/plagia/internal/cache"
)

// Redis tracks usage counters in Redis so that several server replicas
// share one quota.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int
	ttl    time.Duration
}

// DialRedis connects to url and returns a Redis tracker.
func DialRedis(url, prefix string, limit int, ttl time.Duration) (*Redis, error) {
	client, err := cache.Connect(url)
	if err != nil {
		return nil, err
	}
	return NewRedis(client, prefix, limit, ttl), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string, limit int, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{client: client, prefix: prefix, limit: limit, ttl: ttl}
}

func (r *Redis) key(id string) string {
	return r.prefix + "quota:" + id
}

// Load implements Tracker.
func (r *Redis) Load(ctx context.Context, id string) (*Session, error) {
	s := &Session{ID: id, Limit: r.limit}
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	used, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("parsing session %s usage %q: %w", id, val, err)
	}
	s.Used = used
	return s, nil
}

// Commit implements Tracker. The counter expiry is set only when the key
// is created.
func (r *Redis) Commit(ctx context.Context, s *Session) error {
	n := s.Consumed()
	if n == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	pipe.IncrBy(ctx, r.key(s.ID), int64(n))
	pipe.ExpireNX(ctx, r.key(s.ID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("committing session %s: %w", s.ID, err)
	}
	s.consumed = 0
	return nil
}
