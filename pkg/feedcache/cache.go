// Package feedcache holds rendered feed pages for a short time.
//
// Every store tracks a generation. Invalidate bumps it, and a page built under
// an older generation is never returned afterwards, even if the build finished
// after the bump.
package feedcache

import (
	"context"
	"time"

	"anoa.com/blogfeed/pkg/logger"
)

// DefaultTTL matches the per-page timeout used for the public feeds.
const DefaultTTL = 20 * time.Second

// BuildFunc renders the page when the cache misses.
type BuildFunc func(ctx context.Context) ([]byte, error)

type Cache interface {
	// Fetch returns the cached value for key or stores the result of build.
	Fetch(ctx context.Context, key string, build BuildFunc) ([]byte, error)
	// Invalidate drops everything cached so far.
	Invalidate(ctx context.Context) error
}

// InvalidateOrLog drops the cache after a mutation. The mutation has already
// been committed, so a failure is logged rather than returned.
func InvalidateOrLog(ctx context.Context, c Cache, reason string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("reason", reason).Msg("feed cache invalidation failed")
	}
}
