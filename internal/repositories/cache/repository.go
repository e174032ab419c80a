// Package cache persists generic keyed values with an expiry timestamp.
package cache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
)

// Repository is the storage contract for the cache table. Expiry is enforced
// at lookup time: an entry past its expiry is reported as a miss even when
// the row is still physically present.
type Repository interface {
	// Put upserts by cache key, replacing the value and resetting expiry.
	Put(ctx context.Context, entry *models.CacheEntry) error
	// GetByKey returns common.ErrCacheMiss for absent and expired keys.
	GetByKey(ctx context.Context, key string, now time.Time) (*models.CacheEntry, error)
	// DeleteExpired removes entries past expiry; returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context, now time.Time) (models.CacheStats, error)
}
