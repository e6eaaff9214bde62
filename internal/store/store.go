package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Local is the client-side persistence layer: the session token plus the
// last fetched employee/task snapshots. It never talks to the server.
type Local struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	l := &Local{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Local, error) {
	return New(":memory:")
}

func (l *Local) Close() error {
	return l.db.Close()
}

func (l *Local) migrate() error {
	var version int
	err := l.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := l.migrateV1(); err != nil {
			return err
		}
	}

	_, err = l.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (l *Local) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS session (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		pos      INTEGER PRIMARY KEY,
		id       TEXT NOT NULL,
		name     TEXT NOT NULL,
		email    TEXT NOT NULL DEFAULT '',
		function TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS tasks (
		pos         INTEGER PRIMARY KEY,
		id          TEXT NOT NULL,
		title       TEXT NOT NULL,
		coefficient REAL NOT NULL DEFAULT 0,
		reference   TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := l.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/pointr/pointr.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pointr", "pointr.db"), nil
}
