// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides the content-addressed result cache shared by
// pipeline stages. Keys are digests of stage inputs; values are JSON
// encoded so the in-process and Redis stores behave the same.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/pdiddy/plagia/pkg/types"
)

// ErrSerialization is returned when a value cannot be encoded or decoded.
var ErrSerialization = errors.New("cache serialization failed")

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the value stored under key into dest and reports whether
	// the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// New returns the cache selected by cfg.Backend. CacheNone returns nil.
func New(cfg types.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case types.CacheNone, "":
		return nil, nil
	case types.CacheMemory:
		return NewMemory(cfg.MaxEntries, cfg.TTL), nil
	case types.CacheRedis:
		return DialRedis(cfg.RedisURL, cfg.Prefix, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q: use none, memory, or redis", cfg.Backend)
	}
}

// Key returns the hex sha256 of the length-prefixed parts, so ("ab","c")
// and ("a","bc") hash differently.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
