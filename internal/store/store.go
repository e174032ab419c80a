// Package store opens the local SQLite database, applies migrations, and
// bundles the table repositories behind an explicit open/close lifecycle.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/dockeeper/internal/repositories/cache"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/documents"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/projects"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/standardinfo"
	"github.com/dmitrijs2005/dockeeper/internal/repositories/syncqueue"
	"github.com/dmitrijs2005/dockeeper/internal/store/migrations"
)

// Store owns the database handle and exposes one repository per table.
type Store struct {
	db *sql.DB

	Projects     projects.Repository
	Documents    documents.Repository
	StandardInfo standardinfo.Repository
	Queue        syncqueue.Repository
	Cache        cache.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open creates (if needed) and opens the database at path, applies pragmas
// and migrations, and returns the repository bundle.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := enablePragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{
		db:           db,
		Projects:     projects.NewSQLiteRepository(db),
		Documents:    documents.NewSQLiteRepository(db),
		StandardInfo: standardinfo.NewSQLiteRepository(db),
		Queue:        syncqueue.NewSQLiteRepository(db),
		Cache:        cache.NewSQLiteRepository(db),
	}, nil
}

// enablePragmas sets SQLite pragmas for safety under concurrent access.
func enablePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

// DB exposes the underlying handle for transactional helpers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
