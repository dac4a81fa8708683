package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "taskcal.sqlite"

const schemaVersion = 1

// SQLite stores all keys in one table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) dir/taskcal.sqlite.
func OpenSQLite(dir string) (*SQLite, error) {
	if dir == "" {
		return nil, errors.New("open sqlite storage: directory is empty")
	}

	err := os.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage: create %s: %w", dir, err)
	}

	ctx := context.Background()

	db, err := openSQLite(ctx, filepath.Join(dir, SQLiteFileName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage: %w", err)
	}

	err = ensureSchema(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open sqlite storage: %w", err)
	}

	return &SQLite{db: db}, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer; the store is single-threaded anyway.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 2000",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	var version int

	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version == schemaVersion {
		return nil
	}

	if version > schemaVersion {
		return fmt.Errorf("%w: database has version %d, this tc supports %d", ErrSchemaTooNew, version, schemaVersion)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	) WITHOUT ROWID`)
	if err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	if err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}

	return nil
}

// Get selects the row for key.
func (s *SQLite) Get(key string) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrClosed
	}

	err := ValidateKey(key)
	if err != nil {
		return "", false, err
	}

	var value string

	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}

	return value, true, nil
}

// Set upserts the row for key.
func (s *SQLite) Set(key, value string) error {
	if s.db == nil {
		return ErrClosed
	}

	err := ValidateKey(key)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

// Remove deletes the row for key, if any.
func (s *SQLite) Remove(key string) error {
	if s.db == nil {
		return ErrClosed
	}

	err := ValidateKey(key)
	if err != nil {
		return err
	}

	_, err = s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}

	return nil
}

// Close releases the database handle. Further calls return [ErrClosed].
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil

	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}

	return nil
}

var _ Storage = (*SQLite)(nil)
