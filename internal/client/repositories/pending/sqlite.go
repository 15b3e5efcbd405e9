package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/andrejsk/kvits/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX, so enqueueing can share
// a transaction with the local receipt delete (crash safety: the compensation
// marker commits together with the delete it compensates for).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Enqueue inserts an identifier, ignoring duplicates (idempotent).
func (r *SQLiteRepository) Enqueue(ctx context.Context, id string) error {
	query := `INSERT INTO pending_deletions (id, queued_at) VALUES (?, ?)
			ON CONFLICT(id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to enqueue pending deletion: %w", err)
	}
	return nil
}

// Remove drops an identifier; absent identifiers are not an error.
func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `delete from pending_deletions where id=?`, id); err != nil {
		return fmt.Errorf("failed to remove pending deletion: %w", err)
	}
	return nil
}

// List returns all queued identifiers, oldest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `select id from pending_deletions order by queued_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending deletions: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}
