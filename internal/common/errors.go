// Package common defines shared constants and sentinel errors used across
// the dockeeper client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Cache lookups return ErrCacheMiss for both absent and expired entries.
	// It is a normal negative result, not a failure.
	ErrCacheMiss = errors.New("cache miss")

	// Gateway errors. Unreachable covers transport failures and is
	// recoverable on the next sync trigger; Rejected covers logical
	// refusals (validation, permission) and preserves the server message.
	ErrGatewayUnreachable = errors.New("gateway unreachable")
	ErrGatewayRejected    = errors.New("gateway rejected request")

	// Engine-level errors.
	ErrSyncBusy  = errors.New("sync already in progress")
	ErrNoSession = errors.New("no active session")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
)
