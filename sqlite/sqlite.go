// Package sqlite stores the scraped document table and the embedded corpus
// in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/fwojciec/webqa"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// busyTimeout is how long a connection waits on a locked database, in ms.
const busyTimeout = 5000

// migrations are applied in order; the database's user_version records how
// many have run. Append only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL,
		content_hash TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chunks (
		position INTEGER PRIMARY KEY,
		text TEXT NOT NULL,
		n_tokens INTEGER NOT NULL,
		embeddings TEXT NOT NULL
	)`,
}

// SchemaVersion is the user_version of a fully migrated database.
var SchemaVersion = len(migrations)

// DB is a SQLite database holding one site's documents and corpus.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for the file at path. Use ":memory:" for a database
// that lives as long as the DB is open.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects and migrates the schema to SchemaVersion. A database written
// by a newer build is refused rather than modified.
func (db *DB) Open() error {
	ctx := context.Background()

	conn, err := sql.Open("sqlite3", dsn(db.path))
	if err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "open %s: %v", db.path, err)
	}
	// One writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return webqa.Errorf(webqa.ECORPUSIO, "open %s: %v", db.path, err)
	}
	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return err
	}

	db.db = conn
	return nil
}

// dsn sets the connection pragmas. In-memory databases cannot use WAL.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout))
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(wal)")
	}
	return "file:" + path + "?" + q.Encode()
}

func migrate(ctx context.Context, conn *sql.DB) error {
	var version int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return webqa.Errorf(webqa.ECORPUSIO, "read schema version: %v", err)
	}
	if version > len(migrations) {
		return webqa.Errorf(webqa.EINVALID, "database schema version %d is newer than supported version %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return webqa.Errorf(webqa.ECORPUSIO, "migrate to version %d: %v", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return webqa.Errorf(webqa.ECORPUSIO, "migrate to version %d: %v", i+1, err)
		}
		// PRAGMA does not take bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return webqa.Errorf(webqa.ECORPUSIO, "migrate to version %d: %v", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return webqa.Errorf(webqa.ECORPUSIO, "migrate to version %d: %v", i+1, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// Version returns the schema version recorded in the database.
func (db *DB) Version(ctx context.Context) (int, error) {
	var version int
	err := db.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}
