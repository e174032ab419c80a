package documents

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

const columns = `id, project_id, owner_id, title, content, tags, metadata,
	created_at, updated_at, deleted_at, sync_status, last_sync_at, local_updated_at`

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

func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.Document) error {
	return upsert(ctx, r.db, rec)
}

func upsert(ctx context.Context, db dbx.DBTX, rec *models.Document) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `INSERT INTO documents (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			owner_id = excluded.owner_id,
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			metadata = excluded.metadata,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			sync_status = excluded.sync_status,
			last_sync_at = excluded.last_sync_at,
			local_updated_at = excluded.local_updated_at`

	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.ProjectID, rec.OwnerID, rec.Title, rec.Content,
		string(tags), string(metadata),
		dbx.FormatTime(rec.CreatedAt), dbx.FormatTime(rec.UpdatedAt),
		dbx.FormatTimePtr(rec.DeletedAt), string(rec.SyncStatus),
		dbx.FormatTimePtr(rec.LastSyncAt), dbx.FormatTime(rec.LocalUpdatedAt))
	if err != nil {
		return storageErr("upsert document", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		rec                        models.Document
		tags, metadata             string
		createdAt, updatedAt       string
		status, localUpdatedAt     string
		deletedAt, lastSyncAt      sql.NullString
	)

	err := row.Scan(&rec.ID, &rec.ProjectID, &rec.OwnerID, &rec.Title, &rec.Content,
		&tags, &metadata, &createdAt, &updatedAt, &deletedAt, &status,
		&lastSyncAt, &localUpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
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

func (r *SQLiteRepository) getByID(ctx context.Context, id string, includeDeleted bool) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	rec, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get document", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return r.getByID(ctx, id, false)
}

func (r *SQLiteRepository) GetAnyByID(ctx context.Context, id string) (*models.Document, error) {
	return r.getByID(ctx, id, true)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list documents", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		rec, err := scanDocument(rows)
		if err != nil {
			return nil, storageErr("scan document", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list documents", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	return r.list(ctx, `SELECT `+columns+` FROM documents
		WHERE owner_id = ? AND deleted_at IS NULL
		ORDER BY local_updated_at DESC`, ownerID)
}

func (r *SQLiteRepository) ListByProject(ctx context.Context, ownerID, projectID string) ([]*models.Document, error) {
	return r.list(ctx, `SELECT `+columns+` FROM documents
		WHERE owner_id = ? AND project_id = ? AND deleted_at IS NULL
		ORDER BY local_updated_at DESC`, ownerID, projectID)
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, ownerID string) ([]*models.Document, error) {
	return r.list(ctx, `SELECT `+columns+` FROM documents
		WHERE owner_id = ? AND sync_status IN ('pending', 'error')
		ORDER BY local_updated_at`, ownerID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	formatted := dbx.FormatTime(at)
	_, err := r.db.ExecContext(ctx, `UPDATE documents
		SET sync_status = 'synced', last_sync_at = ?, local_updated_at = ?
		WHERE id = ?`, formatted, formatted, id)
	if err != nil {
		return storageErr("mark document synced", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return storageErr("mark document error", err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceID(ctx context.Context, tempID string, rec *models.Document) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, tempID); err != nil {
			return err
		}
		return upsert(ctx, tx, rec)
	})
	if err != nil {
		return storageErr("replace document id", err)
	}
	return nil
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE documents
		SET deleted_at = ?, sync_status = 'pending', local_updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		dbx.FormatTime(at), dbx.FormatTime(at), id)
	if err != nil {
		return storageErr("soft delete document", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return storageErr("soft delete document", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Purge(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return storageErr("purge document", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("purge documents", err)
	}
	return nil
}

func (r *SQLiteRepository) CountByStatus(ctx context.Context, ownerID string) (models.TableStats, error) {
	var stats models.TableStats
	rows, err := r.db.QueryContext(ctx, `SELECT sync_status, COUNT(*)
		FROM documents WHERE owner_id = ? AND deleted_at IS NULL
		GROUP BY sync_status`, ownerID)
	if err != nil {
		return stats, storageErr("count documents", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, storageErr("count documents", err)
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
		return stats, storageErr("count documents", err)
	}
	return stats, nil
}

func (r *SQLiteRepository) LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT last_sync_at FROM documents
		WHERE owner_id = ? AND last_sync_at IS NOT NULL`, ownerID)
	if err != nil {
		return nil, storageErr("last synced documents", err)
	}
	defer rows.Close()

	var latest *time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storageErr("last synced documents", err)
		}
		t, err := dbx.ParseTime(raw)
		if err != nil {
			return nil, storageErr("last synced documents", err)
		}
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("last synced documents", err)
	}
	return latest, nil
}
