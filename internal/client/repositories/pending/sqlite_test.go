package pending

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_deletions (
  id TEXT PRIMARY KEY,
  queued_at INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)

	return db
}

func TestEnqueue_IsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, "id1"))
	require.NoError(t, r.Enqueue(ctx, "id1"))
	require.NoError(t, r.Enqueue(ctx, "id2"))

	ids, err := r.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"id1", "id2"}, ids)
}

func TestRemove(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, "id1"))
	require.NoError(t, r.Remove(ctx, "id1"))

	ids, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Removing an absent id is a no-op.
	require.NoError(t, r.Remove(ctx, "id1"))
}
