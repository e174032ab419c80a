package standardinfo_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/standardinfo"
	"github.com/dmitrijs2005/dockeeper/internal/store"
)

func setupRepo(t *testing.T) standardinfo.Repository {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st.StandardInfo
}

func newEntry(id, owner, category, title string) *models.StandardInfo {
	now := time.Now().UTC().Truncate(time.Millisecond)
	e := &models.StandardInfo{
		ID:        id,
		OwnerID:   owner,
		Category:  category,
		Title:     title,
		Content:   "text",
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.MarkPending(now)
	return e
}

func TestUpsertAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newEntry("s1", "u1", "compliance", "GDPR")))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "compliance", got.Category)
	require.Equal(t, models.StatusPending, got.SyncStatus)
}

func TestListByCategory(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newEntry("s1", "u1", "compliance", "a")))
	require.NoError(t, repo.Upsert(ctx, newEntry("s2", "u1", "style", "b")))
	require.NoError(t, repo.Upsert(ctx, newEntry("s3", "u2", "compliance", "c")))

	list, err := repo.ListByCategory(ctx, "u1", "compliance")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "s1", list[0].ID)
}

func TestSoftDeleteExcludedFromReads(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newEntry("s1", "u1", "style", "a")))
	require.NoError(t, repo.SoftDelete(ctx, "s1", time.Now().UTC()))

	_, err := repo.GetByID(ctx, "s1")
	require.ErrorIs(t, err, common.ErrNotFound)

	list, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)

	unsynced, err := repo.ListUnsynced(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
}

func TestReplaceID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newEntry("temp_s", "u1", "style", "a")))

	replacement := newEntry("srv_5", "u1", "style", "a")
	replacement.MarkSynced(time.Now().UTC())
	require.NoError(t, repo.ReplaceID(ctx, "temp_s", replacement))

	_, err := repo.GetAnyByID(ctx, "temp_s")
	require.ErrorIs(t, err, common.ErrNotFound)

	got, err := repo.GetByID(ctx, "srv_5")
	require.NoError(t, err)
	require.Equal(t, models.StatusSynced, got.SyncStatus)
}
