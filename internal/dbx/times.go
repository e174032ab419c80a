package dbx

import (
	"database/sql"
	"time"
)

// Timestamps are persisted as RFC3339Nano TEXT so they stay readable in the
// database and sort lexicographically in index order.

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatTimePtr returns a driver-friendly value: nil for nil, else the
// formatted string.
func FormatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ParseTimePtr converts a nullable column into *time.Time.
func ParseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := ParseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
