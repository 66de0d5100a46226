package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/sqlite"
	"github.com/stretchr/testify/assert"
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

	t.Run("migrates a new database to the latest version", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		version, err := db.Version(ctx)
		require.NoError(t, err)
		assert.Equal(t, sqlite.SchemaVersion, version)

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n))
	})

	t.Run("reopening keeps stored rows", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "webqa.db")
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, "INSERT INTO chunks (position, text, n_tokens, embeddings) VALUES (0, 'Boxes ship Monday.', 4, '[0.1]')")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		var text string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT text FROM chunks WHERE position = 0").Scan(&text))
		assert.Equal(t, "Boxes ship Monday.", text)
	})

	t.Run("upgrades a database left at an older version", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "webqa.db")
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, "DROP TABLE chunks")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, "PRAGMA user_version = 1")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		version, err := db.Version(ctx)
		require.NoError(t, err)
		assert.Equal(t, sqlite.SchemaVersion, version)
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n))
	})

	t.Run("refuses a database from a newer build", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "webqa.db")
		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(context.Background(), "PRAGMA user_version = 99")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(path).Open()

		require.Error(t, err)
		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
		assert.Contains(t, webqa.ErrorMessage(err), "99")
	})

	t.Run("reports an unreachable path as corpus I/O", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewDB("/nonexistent/path/db.sqlite").Open()

		require.Error(t, err)
		assert.Equal(t, webqa.ECORPUSIO, webqa.ErrorCode(err))
	})

	t.Run("uses WAL for file databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "webqa.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var mode string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})
}
