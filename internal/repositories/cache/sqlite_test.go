package cache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/cache"
	"github.com/dmitrijs2005/dockeeper/internal/store"
)

func setupRepo(t *testing.T) cache.Repository {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st.Cache
}

func TestPutAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry := &models.CacheEntry{
		Key:       "k1",
		Value:     []byte("v1"),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repo.Put(ctx, entry))
	require.NotEmpty(t, entry.ID)

	got, err := repo.GetByKey(ctx, "k1", now)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got.Value)
}

func TestGetByKey_Miss(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.GetByKey(context.Background(), "absent", time.Now().UTC())
	require.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestExpiredEntryInvisibleBeforeSweep(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, &models.CacheEntry{
		Key:       "k1",
		Value:     []byte("v1"),
		ExpiresAt: now.Add(-time.Second),
		CreatedAt: now.Add(-time.Hour),
	}))

	// the row is still physically present
	stats, err := repo.Stats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, models.CacheStats{Total: 1, Expired: 1}, stats)

	// but lookup reports a miss
	_, err = repo.GetByKey(ctx, "k1", now)
	require.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestPut_OverwritesAndResetsExpiry(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, &models.CacheEntry{
		Key: "k1", Value: []byte("old"), ExpiresAt: now.Add(-time.Second), CreatedAt: now,
	}))
	require.NoError(t, repo.Put(ctx, &models.CacheEntry{
		Key: "k1", Value: []byte("new"), ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	got, err := repo.GetByKey(ctx, "k1", now)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got.Value)

	stats, err := repo.Stats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, models.CacheStats{Total: 1, Expired: 0}, stats)
}

func TestDeleteExpired(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, &models.CacheEntry{
		Key: "dead", Value: []byte("x"), ExpiresAt: now.Add(-time.Minute), CreatedAt: now,
	}))
	require.NoError(t, repo.Put(ctx, &models.CacheEntry{
		Key: "alive", Value: []byte("y"), ExpiresAt: now.Add(time.Minute), CreatedAt: now,
	}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	stats, err := repo.Stats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, models.CacheStats{Total: 1, Expired: 0}, stats)
}

func TestClear(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, &models.CacheEntry{
		Key: "k1", Value: []byte("x"), ExpiresAt: now.Add(time.Minute), CreatedAt: now,
	}))
	require.NoError(t, repo.Clear(ctx))

	stats, err := repo.Stats(ctx, now)
	require.NoError(t, err)
	require.Zero(t, stats.Total)
}
