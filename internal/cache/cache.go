// Package cache is the TTL layer over the persistent cache table.
// Expired entries stop being visible immediately; their rows are removed
// by the eviction sweep at the end of each sync cycle.
package cache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/cache"
)

type Cache struct {
	repo cache.Repository
	ttl  time.Duration
	now  func() time.Time
}

func New(repo cache.Repository, ttl time.Duration) *Cache {
	return &Cache{repo: repo, ttl: ttl, now: time.Now}
}

// Get returns the cached value, or common.ErrCacheMiss when the key is
// absent or past its expiry.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := c.repo.GetByKey(ctx, key, c.now())
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Set stores the value under key with a fresh TTL, overwriting any
// previous entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	now := c.now()
	return c.repo.Put(ctx, &models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(c.ttl),
		CreatedAt: now,
	})
}

// EvictExpired removes rows past their expiry and returns how many went.
func (c *Cache) EvictExpired(ctx context.Context) (int, error) {
	return c.repo.DeleteExpired(ctx, c.now())
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.repo.Clear(ctx)
}

func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	return c.repo.Stats(ctx, c.now())
}
