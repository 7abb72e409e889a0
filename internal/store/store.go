// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives completed research runs in SQLite so they can be
// listed and reloaded later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// ErrNotFound is returned by Load for an unknown run id.
var ErrNotFound = errors.New("run not found")

const defaultListLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	documents  INTEGER NOT NULL DEFAULT 0,
	patents    INTEGER NOT NULL DEFAULT 0,
	papers     INTEGER NOT NULL DEFAULT 0,
	failures   INTEGER NOT NULL DEFAULT 0,
	narrative  TEXT NOT NULL DEFAULT '',
	report     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Summary is one row of the run listing.
type Summary struct {
	ID        string    `db:"id" json:"id"`
	Query     string    `db:"query" json:"query"`
	CreatedAt time.Time `db:"-" json:"created_at"`
	Documents int       `db:"documents" json:"documents"`
	Patents   int       `db:"patents" json:"patents"`
	Papers    int       `db:"papers" json:"papers"`
	Failures  int       `db:"failures" json:"failures"`
	Narrative string    `db:"narrative" json:"narrative"`

	Created string `db:"created_at" json:"-"`
}

// Store is the run archive. It is safe for concurrent use.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives r, replacing an earlier copy with the same id.
func (s *Store) Save(ctx context.Context, r *types.ResearchReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	failures := 0
	for _, st := range r.Status {
		if st.Outcome != types.OutcomeSuccess {
			failures++
		}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, query, created_at, documents, patents, papers, failures, narrative, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			query=excluded.query, created_at=excluded.created_at, documents=excluded.documents,
			patents=excluded.patents, papers=excluded.papers, failures=excluded.failures,
			narrative=excluded.narrative, report=excluded.report`,
		r.ID, r.Query, r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.Statistics.Total, r.Statistics.Patents, r.Statistics.Papers, failures,
		string(r.Narrative.Source), string(data),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", r.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. A non-positive limit means
// the default.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var rows []Summary
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, query, created_at, documents, patents, papers, failures, narrative
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	for i := range rows {
		t, err := time.Parse(time.RFC3339Nano, rows[i].Created)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", rows[i].ID, rows[i].Created, err)
		}
		rows[i].CreatedAt = t
	}
	return rows, nil
}

// Load returns the archived report with the given id.
func (s *Store) Load(ctx context.Context, id string) (*types.ResearchReport, error) {
	var data string
	err := s.db.GetContext(ctx, &data, `SELECT report FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	var r types.ResearchReport
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return &r, nil
}

// Delete removes a run. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
