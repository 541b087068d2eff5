package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/offerdoc/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fragments").Scan(&n))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM price_history").Scan(&n))
	})

	t.Run("reopening keeps the schema", func(t *testing.T) {
		t.Parallel()

		path := t.TempDir() + "/offers.db"
		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(t.TempDir() + "/test.db")
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})
}
