// Package gateway talks to the remote record gateway over REST/JSON.
package gateway

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/dbx"
)

// Record is a gateway-side record as returned by the server. Field names
// follow the wire format (snake_case).
type Record map[string]any

// ID returns the server-assigned record id, or "" when missing.
func (r Record) ID() string {
	return r.String("id")
}

// String returns the value under key if it is a string, "" otherwise.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Time parses an RFC3339 timestamp stored under key. ok is false when
// the field is absent or malformed.
func (r Record) Time(key string) (t time.Time, ok bool) {
	s := r.String(key)
	if s == "" {
		return time.Time{}, false
	}
	parsed, err := dbx.ParseTime(s)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Gateway is the remote side of the sync engine. All calls are
// synchronous; callers decide about retries.
type Gateway interface {
	CreateRecord(ctx context.Context, table string, fields map[string]any) (Record, error)
	UpdateRecord(ctx context.Context, table string, id string, fields map[string]any) (Record, error)
	DeleteRecord(ctx context.Context, table string, id string) error
	ListUserRecords(ctx context.Context, table string, ownerID string) ([]Record, error)
	Ping(ctx context.Context) error
}
