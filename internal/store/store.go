// Package store provides SQLite persistence for the SADAR API server:
// users, reflections, and system prompts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique-constraint conflicts (e.g. email).
var ErrDuplicate = errors.New("already exists")

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database under dataDir and applies
// migrations.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sadar.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Best-effort: reflections are sensitive, keep the file owner-only.
	_ = os.Chmod(dbPath, 0600)

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reflections (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		scene TEXT NOT NULL,
		therapist_affect TEXT NOT NULL,
		initial_hypothesis TEXT NOT NULL,
		ai_response TEXT,
		de_id_confirmed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_reflections_user_created
	ON reflections(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS system_prompts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		prompt_text TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_prompts_name_active
	ON system_prompts(name) WHERE is_active = 1;
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
