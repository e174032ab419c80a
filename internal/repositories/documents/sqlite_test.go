package documents_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/models"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/documents"
	"github.com/dmitrijs2005/dockeeper/internal/store"
)

func setupRepo(t *testing.T) documents.Repository {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st.Documents
}

func newDocument(id, owner, project, title string) *models.Document {
	now := time.Now().UTC().Truncate(time.Millisecond)
	d := &models.Document{
		ID:        id,
		ProjectID: project,
		OwnerID:   owner,
		Title:     title,
		Content:   "body",
		Metadata:  map[string]string{"lang": "en"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.MarkPending(now)
	return d
}

func TestUpsertAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	d := newDocument("d1", "u1", "p1", "notes")
	require.NoError(t, repo.Upsert(ctx, d))

	got, err := repo.GetByID(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "notes", got.Title)
	require.Equal(t, "p1", got.ProjectID)
	require.Equal(t, map[string]string{"lang": "en"}, got.Metadata)
	require.Equal(t, models.StatusPending, got.SyncStatus)
}

func TestListByProject(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newDocument("d1", "u1", "p1", "a")))
	require.NoError(t, repo.Upsert(ctx, newDocument("d2", "u1", "p2", "b")))
	require.NoError(t, repo.Upsert(ctx, newDocument("d3", "u2", "p1", "c")))

	list, err := repo.ListByProject(ctx, "u1", "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "d1", list[0].ID)
}

func TestSoftDeleteThenPurge(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newDocument("d1", "u1", "p1", "a")))
	require.NoError(t, repo.SoftDelete(ctx, "d1", time.Now().UTC()))

	_, err := repo.GetByID(ctx, "d1")
	require.ErrorIs(t, err, common.ErrNotFound)

	// the pending delete is still visible to the engine
	list, err := repo.ListUnsynced(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].DeletedAt)

	require.NoError(t, repo.Purge(ctx, "d1"))
	_, err = repo.GetAnyByID(ctx, "d1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSoftDelete_MissingRecord(t *testing.T) {
	repo := setupRepo(t)
	err := repo.SoftDelete(context.Background(), "nope", time.Now().UTC())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestReplaceID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newDocument("temp_d", "u1", "p1", "draft")))

	replacement := newDocument("srv_9", "u1", "p1", "draft")
	replacement.MarkSynced(time.Now().UTC())
	require.NoError(t, repo.ReplaceID(ctx, "temp_d", replacement))

	_, err := repo.GetAnyByID(ctx, "temp_d")
	require.ErrorIs(t, err, common.ErrNotFound)

	got, err := repo.GetByID(ctx, "srv_9")
	require.NoError(t, err)
	require.Equal(t, models.StatusSynced, got.SyncStatus)
}

func TestCountByStatus(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newDocument("d1", "u1", "p1", "a")))
	require.NoError(t, repo.Upsert(ctx, newDocument("d2", "u1", "p1", "b")))
	require.NoError(t, repo.MarkSynced(ctx, "d2", time.Now().UTC()))

	stats, err := repo.CountByStatus(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, models.TableStats{Total: 2, Synced: 1, Pending: 1}, stats)
}
