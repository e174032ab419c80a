package syncqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/dmitrijs2005/dockeeper/internal/common"
	"github.com/dmitrijs2005/dockeeper/internal/dbx"
	"github.com/dmitrijs2005/dockeeper/internal/models"
)

const columns = `id, table_name, operation, payload, record_id, owner_id,
	enqueued_at, retry_count, last_error`

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

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.SyncQueueItem) error {
	if item.ID == "" {
		// ksuids sort by creation time, which keeps the primary key aligned
		// with enqueue order.
		item.ID = ksuid.New().String()
	}
	if !item.Operation.Valid() {
		return fmt.Errorf("invalid queue operation: %q", item.Operation)
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO sync_queue (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.TableName, string(item.Operation), string(item.Payload),
		item.RecordID, item.OwnerID, dbx.FormatTime(item.EnqueuedAt),
		item.RetryCount, item.LastError)
	if err != nil {
		return storageErr("enqueue", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.SyncQueueItem, error) {
	var (
		item       models.SyncQueueItem
		operation  string
		payload    string
		enqueuedAt string
		lastError  sql.NullString
	)

	err := row.Scan(&item.ID, &item.TableName, &operation, &payload,
		&item.RecordID, &item.OwnerID, &enqueuedAt, &item.RetryCount, &lastError)
	if err != nil {
		return nil, err
	}

	item.Operation = models.QueueOperation(operation)
	item.Payload = []byte(payload)
	if item.EnqueuedAt, err = dbx.ParseTime(enqueuedAt); err != nil {
		return nil, err
	}
	if lastError.Valid {
		item.LastError = &lastError.String
	}

	return &item, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.SyncQueueItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM sync_queue
		WHERE owner_id = ? ORDER BY enqueued_at, id`, ownerID)
	if err != nil {
		return nil, storageErr("list queue", err)
	}
	defer rows.Close()

	var result []*models.SyncQueueItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scan queue item", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list queue", err)
	}
	return result, nil
}

func (r *SQLiteRepository) LatestByRecord(ctx context.Context, recordID string) (*models.SyncQueueItem, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+columns+`
		FROM sync_queue WHERE record_id = ?
		ORDER BY enqueued_at DESC, id DESC LIMIT 1`, recordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get queue item", err)
	}
	return item, nil
}

func (r *SQLiteRepository) IncrementRetry(ctx context.Context, id string, message string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sync_queue
		SET retry_count = retry_count + 1, last_error = ?
		WHERE id = ?`, message, id)
	if err != nil {
		return storageErr("increment retry", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByRecord(ctx context.Context, recordID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE record_id = ?`, recordID)
	if err != nil {
		return storageErr("delete queue items", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("delete queue items", err)
	}
	return nil
}

func (r *SQLiteRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sync_queue WHERE owner_id = ?`, ownerID).Scan(&n)
	if err != nil {
		return 0, storageErr("count queue", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ResetRetries(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sync_queue
		SET retry_count = 0, last_error = NULL
		WHERE owner_id = ?`, ownerID)
	if err != nil {
		return storageErr("reset retries", err)
	}
	return nil
}
