package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/dbx"
	"github.com/dmitrijs2005/dockeeper/internal/models"
)

// SQLiteRepository implements Repository on the local SQLite store.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStorageUnavailable, op, err)
}

func (r *SQLiteRepository) Put(ctx context.Context, entry *models.CacheEntry) error {
	if entry.ID == "" {
		entry.ID = ksuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO cache
		(id, cache_key, value, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`,
		entry.ID, entry.Key, entry.Value,
		dbx.FormatTime(entry.ExpiresAt), dbx.FormatTime(entry.CreatedAt))
	if err != nil {
		return storageErr("put cache entry", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByKey(ctx context.Context, key string, now time.Time) (*models.CacheEntry, error) {
	var (
		entry                 models.CacheEntry
		expiresAt, createdAt  string
	)

	err := r.db.QueryRowContext(ctx, `SELECT id, cache_key, value, expires_at, created_at
		FROM cache WHERE cache_key = ?`, key).
		Scan(&entry.ID, &entry.Key, &entry.Value, &expiresAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrCacheMiss
	}
	if err != nil {
		return nil, storageErr("get cache entry", err)
	}

	if entry.ExpiresAt, err = dbx.ParseTime(expiresAt); err != nil {
		return nil, storageErr("get cache entry", err)
	}
	if entry.CreatedAt, err = dbx.ParseTime(createdAt); err != nil {
		return nil, storageErr("get cache entry", err)
	}

	// Expired rows wait for the next eviction sweep but never surface.
	if entry.Expired(now) {
		return nil, common.ErrCacheMiss
	}

	return &entry, nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cache WHERE expires_at <= ?`, dbx.FormatTime(now))
	if err != nil {
		return 0, storageErr("delete expired cache entries", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete expired cache entries", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cache`)
	if err != nil {
		return storageErr("clear cache", err)
	}
	return nil
}

func (r *SQLiteRepository) Stats(ctx context.Context, now time.Time) (models.CacheStats, error) {
	var stats models.CacheStats
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM cache`, dbx.FormatTime(now)).
		Scan(&stats.Total, &stats.Expired)
	if err != nil {
		return stats, storageErr("cache stats", err)
	}
	return stats, nil
}
