// Package projects persists project records in the local store.
package projects

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
)

// Repository is the table-scoped storage contract for projects.
//
// User-facing reads exclude soft-deleted rows; engine-facing selections
// (GetAnyByID, ListUnsynced) include them so pending deletions still reach
// the gateway.
type Repository interface {
	// Upsert inserts or fully replaces the record with rec.ID.
	Upsert(ctx context.Context, rec *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetAnyByID(ctx context.Context, id string) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error)
	// ListUnsynced returns the owner's records with status pending or error,
	// ordered by local_updated_at.
	ListUnsynced(ctx context.Context, ownerID string) ([]*models.Project, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
	MarkError(ctx context.Context, id string) error
	// ReplaceID removes the placeholder row and inserts rec (carrying the
	// server-assigned id) in a single transaction.
	ReplaceID(ctx context.Context, tempID string, rec *models.Project) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// Purge physically removes a row; used after a delete is confirmed
	// remotely.
	Purge(ctx context.Context, id string) error
	PurgeMany(ctx context.Context, ids []string) error
	CountByStatus(ctx context.Context, ownerID string) (models.TableStats, error)
	// LastSyncedAt returns the newest confirmed round-trip timestamp for
	// the owner, nil when no record has ever synced.
	LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error)
}
