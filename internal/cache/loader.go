// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Loader fronts a Cache so that concurrent misses on the same key run the
// load function once. A Loader with a nil Cache still deduplicates
// concurrent loads but stores nothing.
type Loader struct {
	Cache  Cache
	Logger *zap.Logger

	group singleflight.Group
}

// NewLoader returns a Loader over c.
func NewLoader(c Cache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Cache: c, Logger: logger}
}

// GetOrLoad returns the cached value for key, or calls load, stores its
// result and returns it. Cache read and write failures are logged and
// otherwise ignored; only load errors are returned. The second result
// reports a cache hit.
func GetOrLoad[T any](ctx context.Context, l *Loader, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if l == nil {
		v, err := load(ctx)
		return v, false, err
	}
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if l.Cache != nil {
		var v T
		hit, err := l.Cache.Get(ctx, key, &v)
		if err != nil {
			log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return v, true, nil
		}
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if l.Cache != nil {
			if err := l.Cache.Set(ctx, key, v); err != nil {
				log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, false, err
	}
	return res.(T), false, nil
}
