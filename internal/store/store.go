// Package store keeps local state in a SQLite file: the last checkout the
// terminal started and the server's hashed visitor log.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var ErrNoCheckout = errors.New("no checkout recorded")

const schema = `
CREATE TABLE IF NOT EXISTS checkouts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	checkout_id TEXT NOT NULL UNIQUE,
	checkout_url TEXT,
	product TEXT,
	status TEXT NOT NULL,
	message TEXT,
	status_log TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" is accepted for
// tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	// SQLite has a single writer; an in-memory database also lives on one
	// connection only.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
