package narrative

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
)

const (
	defaultCacheSize = 512
	defaultCacheTTL  = 10 * time.Minute
)

// CachedSource memoises lookups of another source, including misses.
type CachedSource struct {
	inner Source
	cache *expirable.LRU[string, cacheEntry]
}

type cacheEntry struct {
	blocks   []domain.NarrativeBlock
	notFound bool
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps inner with an expiring LRU of the given size.
func NewCachedSource(inner Source, size int, ttl time.Duration) *CachedSource {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedSource{
		inner: inner,
		cache: expirable.NewLRU[string, cacheEntry](size, nil, ttl),
	}
}

// Lookup serves from the cache when possible. Errors other than ErrNotFound are not cached.
func (c *CachedSource) Lookup(ctx context.Context, label string, value int) ([]domain.NarrativeBlock, error) {
	key := Slug(label) + "/" + strconv.Itoa(value)
	if entry, ok := c.cache.Get(key); ok {
		if entry.notFound {
			return nil, ErrNotFound
		}
		return cloneBlocks(entry.blocks), nil
	}

	blocks, err := c.inner.Lookup(ctx, label, value)
	switch {
	case err == nil:
		c.cache.Add(key, cacheEntry{blocks: cloneBlocks(blocks)})
		return blocks, nil
	case errors.Is(err, ErrNotFound):
		c.cache.Add(key, cacheEntry{notFound: true})
	}
	return nil, err
}

// Ping delegates to the wrapped source.
func (c *CachedSource) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

// Purge drops every cached entry.
func (c *CachedSource) Purge() {
	c.cache.Purge()
}
