// Package models defines client-side data models persisted in the local
// store and exchanged with the remote gateway.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncStatus tracks where a locally stored record stands relative to the
// remote store.
type SyncStatus string

const (
	// StatusSynced means the record completed a confirmed round-trip.
	StatusSynced SyncStatus = "synced"
	// StatusPending means the record has local changes not yet pushed.
	StatusPending SyncStatus = "pending"
	// StatusError means the last push attempt for the record failed.
	StatusError SyncStatus = "error"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case StatusSynced, StatusPending, StatusError:
		return true
	}
	return false
}

// TempIDPrefix marks client-generated placeholder identifiers. A record keeps
// its placeholder until the first successful create round-trip assigns the
// server id.
const TempIDPrefix = "temp_"

// NewTempID returns a fresh placeholder identifier.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id is a client-generated placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// SyncEnvelope carries the per-record sync bookkeeping attached to every
// locally stored domain record. The fields never travel to the remote store.
type SyncEnvelope struct {
	SyncStatus SyncStatus `json:"-"`
	// LastSyncAt is set only on a transition to StatusSynced.
	LastSyncAt *time.Time `json:"-"`
	// LocalUpdatedAt records the most recent local write.
	LocalUpdatedAt time.Time `json:"-"`
	// DeletedAt marks a soft delete awaiting remote confirmation.
	DeletedAt *time.Time `json:"-"`
}

// MarkPending stamps the envelope for a fresh local write.
func (e *SyncEnvelope) MarkPending(now time.Time) {
	e.SyncStatus = StatusPending
	e.LocalUpdatedAt = now
}

// MarkSynced stamps the envelope after a confirmed round-trip.
func (e *SyncEnvelope) MarkSynced(now time.Time) {
	e.SyncStatus = StatusSynced
	at := now
	e.LastSyncAt = &at
	e.LocalUpdatedAt = now
}
