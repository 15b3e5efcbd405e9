// Package storage opens the local SQLite database, applies migrations and
// wires up the repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andrejsk/kvits/internal/client/migrations"
	"github.com/andrejsk/kvits/internal/client/repositories/pending"
	"github.com/andrejsk/kvits/internal/client/repositories/receipts"
	"github.com/andrejsk/kvits/internal/client/repositories/settings"
	"github.com/andrejsk/kvits/internal/dbx"
	"github.com/pressly/goose/v3"
)

// TxFn runs inside a single local transaction; the repositories passed in are
// bound to that transaction.
type TxFn func(ctx context.Context, receiptRepo receipts.Repository, pendingRepo pending.Repository) error

// TxRunner executes a TxFn atomically. The façade uses it to commit a local
// delete together with its pending-deletion marker; tests substitute a runner
// over fakes.
type TxRunner func(ctx context.Context, fn TxFn) error

// Repositories bundles the opened database and the repositories bound to it.
type Repositories struct {
	DB       *sql.DB
	Receipts receipts.Repository
	Pending  pending.Repository
	Settings settings.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the local database at dsn,
// migrates it and returns ready repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Receipts: receipts.NewSQLiteRepository(db),
		Pending:  pending.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
	}, nil
}

// InTx satisfies TxRunner: it runs fn with receipt and pending repositories
// bound to one transaction, committing on success and rolling back on error.
func (r *Repositories) InTx(ctx context.Context, fn TxFn) error {
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, receipts.NewSQLiteRepository(tx), pending.NewSQLiteRepository(tx))
	})
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
