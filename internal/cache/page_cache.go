package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/observability"

	"golang.org/x/sync/singleflight"
)

// Key layout for cached feed pages. Only the global listing is cached.
const (
	KeyPrefix            = "feed:"
	GlobalFeedKeyPattern = "global:page:%d"
)

// GlobalFeedKey returns the store key for a requested global feed page.
func GlobalFeedKey(page int) string {
	return fmt.Sprintf(GlobalFeedKeyPattern, page)
}

// ComputeFunc builds the value to render for a page on a miss, along with
// the page number it actually renders. Requests past the last page resolve
// to the last page.
type ComputeFunc func(ctx context.Context) (any, int, error)

type computed struct {
	body []byte
	hit  bool
}

// PageCache memoizes rendered global feed pages. Writes to the feed do not
// invalidate it; entries live for the configured window or until Clear.
type PageCache struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
}

// NewPageCache returns a PageCache over store with the given page window.
func NewPageCache(store Store, ttl time.Duration) *PageCache {
	return &PageCache{store: store, ttl: ttl}
}

// TTL returns the page window.
func (c *PageCache) TTL() time.Duration {
	return c.ttl
}

// GetOrCompute returns the rendered page for the requested page number and
// whether it was served from the cache. On a miss the value from compute is
// serialised, stored and returned; concurrent misses on the same page share
// one computation. Store failures are logged and degrade to recomputation.
//
// Entries are only stored under the page they render, so requests past the
// last page share the last page's entry instead of adding one per number.
func (c *PageCache) GetOrCompute(ctx context.Context, page int, compute ComputeFunc) ([]byte, bool, error) {
	key := GlobalFeedKey(page)

	if body, ok := c.lookup(ctx, key); ok {
		return body, true, nil
	}
	observability.FeedCacheEvents.WithLabelValues(observability.CacheMiss).Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, resolved, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		storeKey := key
		if resolved != page {
			storeKey = GlobalFeedKey(resolved)
			if body, ok := c.lookup(ctx, storeKey); ok {
				return computed{body: body, hit: true}, nil
			}
		}

		rendered, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("render feed page: %w", err)
		}
		if err := c.store.Set(ctx, storeKey, rendered, c.ttl); err != nil {
			observability.FeedCacheEvents.WithLabelValues(observability.CacheError).Inc()
			middleware.Logger.WarnContext(ctx, "feed cache write failed",
				slog.String("key", storeKey),
				slog.String("error", err.Error()),
			)
		}
		return computed{body: rendered}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(computed)
	return res.body, res.hit, nil
}

func (c *PageCache) lookup(ctx context.Context, key string) ([]byte, bool) {
	body, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		observability.FeedCacheEvents.WithLabelValues(observability.CacheError).Inc()
		middleware.Logger.WarnContext(ctx, "feed cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	case ok:
		observability.FeedCacheEvents.WithLabelValues(observability.CacheHit).Inc()
		return body, true
	}
	return nil, false
}

// Clear drops every cached page in one operation.
func (c *PageCache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}
