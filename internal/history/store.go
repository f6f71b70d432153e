// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

const (
	// DefaultIndexDir is where the run database lives when none is configured.
	DefaultIndexDir = "history/index"

	dbFile = "runs.db"
)

// Store accumulates iteration history across runs in a SQLite database, so
// past runs stay queryable after their CSV exports scatter.
type Store struct {
	db *sql.DB
}

// RunInfo summarizes one stored run.
type RunInfo struct {
	ID           int64
	InitialQuery string
	FinalQuery   string
	Iterations   int
	StartedAt    time.Time
}

// NewStore opens or creates the run database at indexDir/runs.db, creating
// the schema if it does not exist.
func NewStore(indexDir string) (*Store, error) {
	if indexDir == "" {
		indexDir = DefaultIndexDir
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			initial_query TEXT NOT NULL,
			final_query TEXT NOT NULL,
			iterations INTEGER NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS iterations (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			iteration INTEGER NOT NULL,
			query TEXT NOT NULL,
			num_results INTEGER NOT NULL,
			evaluation TEXT,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_iterations_run_id ON iterations(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one completed run and its iteration rows, returning the
// new run ID.
func (s *Store) RecordRun(ctx context.Context, initialQuery, finalQuery string, startedAt time.Time, records []types.IterationRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (initial_query, final_query, iterations, started_at) VALUES (?, ?, ?, ?)`,
		initialQuery, finalQuery, len(records), startedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO iterations (run_id, iteration, query, num_results, evaluation, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, rec.Iteration, rec.Query, rec.NumResults, rec.Evaluation,
			rec.Timestamp.Format(time.RFC3339))
		if err != nil {
			return 0, fmt.Errorf("inserting iteration %d: %w", rec.Iteration, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 means
// the default (20).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, initial_query, final_query, iterations, started_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var started string
		if err := rows.Scan(&r.ID, &r.InitialQuery, &r.FinalQuery, &r.Iterations, &started); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, started); parseErr == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunIterations returns the iteration rows of one run, ordered by iteration.
func (s *Store) RunIterations(ctx context.Context, runID int64) ([]types.IterationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT iteration, query, num_results, evaluation, timestamp
		 FROM iterations WHERE run_id = ? ORDER BY iteration`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying iterations: %w", err)
	}
	defer rows.Close()

	var records []types.IterationRecord
	for rows.Next() {
		var rec types.IterationRecord
		var ts string
		if err := rows.Scan(&rec.Iteration, &rec.Query, &rec.NumResults, &rec.Evaluation, &ts); err != nil {
			return nil, fmt.Errorf("scanning iteration: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
			rec.Timestamp = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
