package services

import (
	"context"
	"log/slog"

	"startup_journey/internal/repositories"
)

// Cache keys and prefixes.
const (
	keyPhases    = "framework:phases"
	keyDomains   = "framework:domains"
	keyFramework = "framework:all"
	keyTools     = "tools:all"

	prefixFramework = "framework:"
	prefixTools     = "tools:"
)

// cached returns the value under key, loading and storing it on a miss.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, cache repositories.Cache, key string, load func() (T, error)) (T, error) {
	var v T
	if cache == nil {
		return load()
	}

	found, err := cache.GetJSON(ctx, key, &v)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
	}
	if found {
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := cache.SetJSON(ctx, key, v); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func invalidate(ctx context.Context, cache repositories.Cache, prefixes ...string) {
	if cache == nil {
		return
	}
	for _, prefix := range prefixes {
		if err := cache.Invalidate(ctx, prefix); err != nil {
			slog.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}
