package models

import "time"

// TableStats is a per-table breakdown of record sync statuses for one owner.
type TableStats struct {
	Total   int
	Synced  int
	Pending int
	Error   int
}

// SyncStats aggregates per-table counts with queue depth and the most recent
// confirmed sync across the domain tables.
type SyncStats struct {
	Projects     TableStats
	Documents    TableStats
	StandardInfo TableStats
	QueueLength  int
	// LastSyncAt is the maximum last_sync_at across domain tables; nil when
	// no record has ever completed a round-trip.
	LastSyncAt *time.Time
}

// SyncState is the snapshot surfaced to the UI layer.
type SyncState struct {
	IsOnline  bool
	IsSyncing bool
	// LastSyncAt mirrors SyncStats.LastSyncAt.
	LastSyncAt *time.Time
	// SyncError holds the human-readable message of the last cycle-fatal
	// failure; empty after a clean cycle.
	SyncError string
	Stats     SyncStats
}
