// Package history persists a record of comparison runs so past results can
// be listed from the CLI and the server.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded comparison.
type Run struct {
	ID        string
	Tool      string // "compare", "label-diff", "partslist", ...
	InputA    string
	InputB    string
	Matched   int
	Added     int
	Removed   int
	Modified  int
	Skipped   int
	Duration  time.Duration
	CreatedAt time.Time
}

// Store is a SQLite-backed run log.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	tool        TEXT NOT NULL,
	input_a     TEXT NOT NULL,
	input_b     TEXT NOT NULL DEFAULT '',
	matched     INTEGER NOT NULL DEFAULT 0,
	added       INTEGER NOT NULL DEFAULT 0,
	removed     INTEGER NOT NULL DEFAULT 0,
	modified    INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Open opens (and if needed initializes) a run-history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=500", path))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one run. A missing ID or timestamp is filled in.
func (s *Store) Record(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, tool, input_a, input_b, matched, added, removed, modified, skipped, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Tool, run.InputA, run.InputB,
		run.Matched, run.Added, run.Removed, run.Modified, run.Skipped,
		run.Duration.Milliseconds(), run.CreatedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, tool, input_a, input_b, matched, added, removed, modified, skipped, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durMs int64
		if err := rows.Scan(&r.ID, &r.Tool, &r.InputA, &r.InputB,
			&r.Matched, &r.Added, &r.Removed, &r.Modified, &r.Skipped,
			&durMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
