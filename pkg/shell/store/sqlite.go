package store

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/shellkit/internal/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLite is a Store backed by a single key-value table.
type SQLite struct {
	db   *sql.DB
	path string
}

const kvSchema = `
CREATE TABLE IF NOT EXISTS shellkit_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// OpenSQLite opens or creates the database at path. Use ":memory:" for a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStore,
				fmt.Sprintf("Couldn't create directory for %s", path), "")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't open %s", path), "")
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode = WAL", kvSchema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.WrapWithCode(err, errors.ErrStore,
				fmt.Sprintf("Couldn't initialise %s", path),
				"Delete the database file if it is corrupt.")
		}
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM shellkit_kv WHERE key = ?", key).Scan(&v)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't read '%s'", key), "")
	}
	return v, true, nil
}

func (s *SQLite) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO shellkit_kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't write '%s'", key), "")
	}
	return nil
}

func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM shellkit_kv WHERE key = ?", key); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't remove '%s'", key), "")
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
