// Package standardinfo persists knowledge-base entries in the local store.
package standardinfo

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
)

// Repository is the table-scoped storage contract for standard_info entries.
type Repository interface {
	Upsert(ctx context.Context, rec *models.StandardInfo) error
	GetByID(ctx context.Context, id string) (*models.StandardInfo, error)
	GetAnyByID(ctx context.Context, id string) (*models.StandardInfo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.StandardInfo, error)
	// ListByCategory narrows an owner's entries to one category.
	ListByCategory(ctx context.Context, ownerID, category string) ([]*models.StandardInfo, error)
	ListUnsynced(ctx context.Context, ownerID string) ([]*models.StandardInfo, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
	MarkError(ctx context.Context, id string) error
	ReplaceID(ctx context.Context, tempID string, rec *models.StandardInfo) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Purge(ctx context.Context, id string) error
	PurgeMany(ctx context.Context, ids []string) error
	CountByStatus(ctx context.Context, ownerID string) (models.TableStats, error)
	// LastSyncedAt returns the newest confirmed round-trip timestamp for
	// the owner, nil when no record has ever synced.
	LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error)
}
