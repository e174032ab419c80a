package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/dbx"
	"github.com/dmitrijs2005/dockeeper/internal/models"
)

const columns = `id, owner_id, name, description, tags, created_at, updated_at,
	deleted_at, sync_status, last_sync_at, local_updated_at`

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

func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.Project) error {
	return upsert(ctx, r.db, rec)
}

func upsert(ctx context.Context, db dbx.DBTX, rec *models.Project) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `INSERT INTO projects (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			description = excluded.description,
			tags = excluded.tags,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			sync_status = excluded.sync_status,
			last_sync_at = excluded.last_sync_at,
			local_updated_at = excluded.local_updated_at`

	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.Name, rec.Description, string(tags),
		dbx.FormatTime(rec.CreatedAt), dbx.FormatTime(rec.UpdatedAt),
		dbx.FormatTimePtr(rec.DeletedAt), string(rec.SyncStatus),
		dbx.FormatTimePtr(rec.LastSyncAt), dbx.FormatTime(rec.LocalUpdatedAt))
	if err != nil {
		return storageErr("upsert project", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var (
		rec                            models.Project
		tags, createdAt, updatedAt     string
		status, localUpdatedAt         string
		deletedAt, lastSyncAt          sql.NullString
	)

	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Name, &rec.Description, &tags,
		&createdAt, &updatedAt, &deletedAt, &status, &lastSyncAt, &localUpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if rec.CreatedAt, err = dbx.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = dbx.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	if rec.LocalUpdatedAt, err = dbx.ParseTime(localUpdatedAt); err != nil {
		return nil, err
	}
	if rec.DeletedAt, err = dbx.ParseTimePtr(deletedAt); err != nil {
		return nil, err
	}
	if rec.LastSyncAt, err = dbx.ParseTimePtr(lastSyncAt); err != nil {
		return nil, err
	}
	rec.SyncStatus = models.SyncStatus(status)

	return &rec, nil
}

func (r *SQLiteRepository) getByID(ctx context.Context, id string, includeDeleted bool) (*models.Project, error) {
	query := `SELECT ` + columns + ` FROM projects WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	rec, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get project", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return r.getByID(ctx, id, false)
}

func (r *SQLiteRepository) GetAnyByID(ctx context.Context, id string) (*models.Project, error) {
	return r.getByID(ctx, id, true)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list projects", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		rec, err := scanProject(rows)
		if err != nil {
			return nil, storageErr("scan project", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list projects", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return r.list(ctx, `SELECT `+columns+` FROM projects
		WHERE owner_id = ? AND deleted_at IS NULL
		ORDER BY local_updated_at DESC`, ownerID)
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return r.list(ctx, `SELECT `+columns+` FROM projects
		WHERE owner_id = ? AND sync_status IN ('pending', 'error')
		ORDER BY local_updated_at`, ownerID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	formatted := dbx.FormatTime(at)
	_, err := r.db.ExecContext(ctx, `UPDATE projects
		SET sync_status = 'synced', last_sync_at = ?, local_updated_at = ?
		WHERE id = ?`, formatted, formatted, id)
	if err != nil {
		return storageErr("mark project synced", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return storageErr("mark project error", err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceID(ctx context.Context, tempID string, rec *models.Project) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, tempID); err != nil {
			return err
		}
		return upsert(ctx, tx, rec)
	})
	if err != nil {
		return storageErr("replace project id", err)
	}
	return nil
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects
		SET deleted_at = ?, sync_status = 'pending', local_updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		dbx.FormatTime(at), dbx.FormatTime(at), id)
	if err != nil {
		return storageErr("soft delete project", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return storageErr("soft delete project", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Purge(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return storageErr("purge project", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("purge projects", err)
	}
	return nil
}

func (r *SQLiteRepository) CountByStatus(ctx context.Context, ownerID string) (models.TableStats, error) {
	var stats models.TableStats
	rows, err := r.db.QueryContext(ctx, `SELECT sync_status, COUNT(*)
		FROM projects WHERE owner_id = ? AND deleted_at IS NULL
		GROUP BY sync_status`, ownerID)
	if err != nil {
		return stats, storageErr("count projects", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, storageErr("count projects", err)
		}
		stats.Total += n
		switch models.SyncStatus(status) {
		case models.StatusSynced:
			stats.Synced = n
		case models.StatusPending:
			stats.Pending = n
		case models.StatusError:
			stats.Error = n
		}
	}
	if err := rows.Err(); err != nil {
		return stats, storageErr("count projects", err)
	}
	return stats, nil
}

func (r *SQLiteRepository) LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT last_sync_at FROM projects
		WHERE owner_id = ? AND last_sync_at IS NOT NULL`, ownerID)
	if err != nil {
		return nil, storageErr("last synced projects", err)
	}
	defer rows.Close()

	var latest *time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storageErr("last synced projects", err)
		}
		t, err := dbx.ParseTime(raw)
		if err != nil {
			return nil, storageErr("last synced projects", err)
		}
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("last synced projects", err)
	}
	return latest, nil
}
