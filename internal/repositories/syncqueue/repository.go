// Package syncqueue persists intended remote operations awaiting execution
// or retry.
package syncqueue

import (
	"context"

	"github.com/dmitrijs2005/dockeeper/internal/models"
)

// Repository is the storage contract for the sync queue.
type Repository interface {
	// Enqueue stores the item; a missing ID is assigned on insert.
	Enqueue(ctx context.Context, item *models.SyncQueueItem) error
	// ListByOwner returns the owner's queue in enqueue order.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.SyncQueueItem, error)
	// LatestByRecord returns the newest queue item targeting recordID.
	LatestByRecord(ctx context.Context, recordID string) (*models.SyncQueueItem, error)
	// IncrementRetry bumps the retry counter and records the error message.
	IncrementRetry(ctx context.Context, id string, message string) error
	// DeleteByRecord drains every queue item for a record after its push
	// round-trip is confirmed.
	DeleteByRecord(ctx context.Context, recordID string) error
	DeleteMany(ctx context.Context, ids []string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// ResetRetries zeroes retry counters for the owner so capped records
	// become eligible for automatic push again.
	ResetRetries(ctx context.Context, ownerID string) error
}
