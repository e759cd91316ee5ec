package search

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached decorates a Provider with a TTL cache so repeated queries within
// one research tree (or across closely spaced runs) don't hit the upstream
// API again.
type Cached struct {
	inner Provider
	cache *gocache.Cache
}

func NewCached(inner Provider, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	key := fmt.Sprintf("%s|%d", query, limit)
	if hit, ok := c.cache.Get(key); ok {
		return hit.([]Document), nil
	}

	docs, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		// Failures are not cached; the engine's retry budget handles them.
		return nil, err
	}

	c.cache.Set(key, docs, gocache.DefaultExpiration)
	return docs, nil
}
