// Package store handles SQLite persistence of refinement history.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/datafolio/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for refinement records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refinements (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			draft TEXT NOT NULL,
			result TEXT NOT NULL,
			outcome TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_refinements_created_at ON refinements(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRefinement stores a finished refinement and returns its id.
func (s *Store) InsertRefinement(ctx context.Context, r model.Refinement) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO refinements (created_at, draft, result, outcome, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		r.CreatedAt.Format(time.RFC3339Nano),
		r.Draft,
		r.Result,
		string(r.Outcome),
		r.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRefinements returns the most recent refinements, oldest first. A limit
// of zero or less returns all of them.
func (s *Store) ListRefinements(ctx context.Context, limit int) ([]model.Refinement, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, draft, result, outcome, duration_ms FROM (
			SELECT * FROM refinements ORDER BY created_at DESC, id DESC LIMIT ?
		) ORDER BY created_at ASC, id ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Refinement
	for rows.Next() {
		var r model.Refinement
		var createdAt, outcome string
		if err := rows.Scan(&r.ID, &createdAt, &r.Draft, &r.Result, &outcome, &r.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = parsed
		r.Outcome = model.Outcome(outcome)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
