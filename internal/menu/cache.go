package menu

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/freshstart/storefront/internal/cache"
)

const listCacheKey = "menu:list"

// ReadCache is a best-effort read-through cache over Store.List, owned by
// the public storefront read path. It is not coherent with concurrent
// writers; admin handlers bypass it and call Invalidate after writes.
type ReadCache struct {
	store  Store
	cache  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewReadCache wraps a store with a TTL list cache.
func NewReadCache(store Store, backing cache.Store, ttl time.Duration, logger *slog.Logger) *ReadCache {
	if backing == nil {
		backing = cache.NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadCache{store: store, cache: backing, ttl: ttl, logger: logger}
}

// List returns cached items when fresh, loading through on a miss. Cache
// failures degrade to a direct store read.
func (c *ReadCache) List(ctx context.Context) ([]Item, error) {
	raw, ok, err := c.cache.Get(ctx, listCacheKey)
	if err != nil {
		c.logger.Warn("menu cache read failed", slog.String("error", err.Error()))
	}
	if ok && err == nil {
		var items []Item
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		c.logger.Warn("menu cache entry corrupt, discarding")
		_ = c.cache.Delete(ctx, listCacheKey)
	}

	items, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := c.cache.Set(ctx, listCacheKey, raw, c.ttl); err != nil {
			c.logger.Warn("menu cache write failed", slog.String("error", err.Error()))
		}
	}
	return items, nil
}

// Invalidate drops the cached list. Called by the write path after a
// successful mutation.
func (c *ReadCache) Invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, listCacheKey); err != nil {
		c.logger.Warn("menu cache invalidate failed", slog.String("error", err.Error()))
	}
}
