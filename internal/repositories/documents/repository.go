// Package documents persists document records in the local store.
package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/models"
)

// Repository is the table-scoped storage contract for documents.
type Repository interface {
	Upsert(ctx context.Context, rec *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetAnyByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error)
	// ListByProject narrows an owner's documents to one project.
	ListByProject(ctx context.Context, ownerID, projectID string) ([]*models.Document, error)
	ListUnsynced(ctx context.Context, ownerID string) ([]*models.Document, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
	MarkError(ctx context.Context, id string) error
	ReplaceID(ctx context.Context, tempID string, rec *models.Document) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	Purge(ctx context.Context, id string) error
	PurgeMany(ctx context.Context, ids []string) error
	CountByStatus(ctx context.Context, ownerID string) (models.TableStats, error)
	// LastSyncedAt returns the newest confirmed round-trip timestamp for
	// the owner, nil when no record has ever synced.
	LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error)
}
