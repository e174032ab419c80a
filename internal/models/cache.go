package models

import "time"

// CacheEntry is a generic keyed value with an expiry timestamp. Entries past
// ExpiresAt are treated as absent even before physical eviction.
type CacheEntry struct {
	ID        string
	Key       string
	Value     []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the entry is past its expiry at the given time.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// CacheStats summarizes the cache table.
type CacheStats struct {
	Total int
	// Expired counts entries past expiry that an eviction sweep has not yet
	// removed.
	Expired int
}
