// Package history records pipeline runs in a local SQLite database so
// past activity against any scan set can be inspected after the fact. The
// pipeline works without it; the scan set directory remains the source of
// truth for artifacts.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/softwarewrighter/scan3data/internal/model"
)

// Store persists pipeline run records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and configures WAL
// mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "history: open %s", path)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck,gosec
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	scan_set_id TEXT NOT NULL,
	dir         TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	result      TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_scan_set ON runs(scan_set_id);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "history: migrate")
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a pipeline run.
func (s *Store) CreateRun(ctx context.Context, scanSetID model.ScanSetID, dir string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, scan_set_id, dir, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(scanSetID), dir, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: insert run")
	}

	return &model.Run{
		ID:        id,
		ScanSetID: scanSetID,
		Dir:       dir,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CompleteRun marks a run finished and stores its result.
func (s *Store) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	return s.finishRun(ctx, runID, model.RunStatusComplete, result)
}

// FailRun marks a run failed, recording the error in the result.
func (s *Store) FailRun(ctx context.Context, runID string, result *model.RunResult) error {
	return s.finishRun(ctx, runID, model.RunStatusFailed, result)
}

func (s *Store) finishRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "history: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "history: update run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "history: rows affected")
	}
	if n == 0 {
		return eris.Errorf("history: run %s not found", runID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scan_set_id, dir, status, result, created_at, updated_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var scanSetID string
		var resultJSON sql.NullString
		if err := rows.Scan(&run.ID, &scanSetID, &run.Dir, &run.Status, &resultJSON, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "history: scan run")
		}
		run.ScanSetID = model.ScanSetID(scanSetID)
		if resultJSON.Valid && resultJSON.String != "" {
			var result model.RunResult
			if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
				return nil, eris.Wrapf(err, "history: parse result for run %s", run.ID)
			}
			run.Result = &result
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "history: iterate runs")
}
