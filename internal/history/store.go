// Package history keeps a SQLite log of allocation and nesting runs so
// scenarios can be compared across sessions.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Run is one recorded engine run.
type Run struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	ProjectName    string    `json:"project_name"`
	BoardName      string    `json:"board_name"`
	StudPitch      int       `json:"stud_pitch"`
	PreferYLong    bool      `json:"prefer_y_long"`
	PanelCount     int       `json:"panel_count"`
	CutPieceCount  int       `json:"cut_piece_count"`
	ViolationCount int       `json:"violation_count"`
	SheetCount     int       `json:"sheet_count"`
	UnplacedCount  int       `json:"unplaced_count"`
	Utilization    float64   `json:"utilization"`
	CreatedAt      time.Time `json:"created_at"`
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL,
		project_name     TEXT NOT NULL DEFAULT '',
		board_name       TEXT NOT NULL DEFAULT '',
		stud_pitch       INTEGER NOT NULL,
		prefer_y_long    INTEGER NOT NULL DEFAULT 0,
		panel_count      INTEGER NOT NULL DEFAULT 0,
		cut_piece_count  INTEGER NOT NULL DEFAULT 0,
		violation_count  INTEGER NOT NULL DEFAULT 0,
		sheet_count      INTEGER NOT NULL DEFAULT 0,
		unplaced_count   INTEGER NOT NULL DEFAULT 0,
		utilization      REAL NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
}

// Store is a run history backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating its directory and
// schema as needed. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database lives as long as its connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run. An empty ID is filled with a new UUID and a zero
// CreatedAt with the current time; the stored run is returned.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	query := `INSERT INTO runs (id, project_id, project_name, board_name, stud_pitch, prefer_y_long,
		panel_count, cut_piece_count, violation_count, sheet_count, unplaced_count, utilization, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.ProjectID,
		run.ProjectName,
		run.BoardName,
		run.StudPitch,
		boolToInt(run.PreferYLong),
		run.PanelCount,
		run.CutPieceCount,
		run.ViolationCount,
		run.SheetCount,
		run.UnplacedCount,
		run.Utilization,
		run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

const selectRun = `SELECT id, project_id, project_name, board_name, stud_pitch, prefer_y_long,
	panel_count, cut_piece_count, violation_count, sheet_count, unplaced_count, utilization, created_at
	FROM runs`

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// List returns up to limit runs, newest first. A limit of 0 or less returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRun + ` ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ListProject returns the runs of one project, newest first.
func (s *Store) ListProject(ctx context.Context, projectID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRun+` WHERE project_id = ? ORDER BY created_at DESC, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing runs for project: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run         Run
		preferYLong int
		createdAt   string
	)
	err := s.Scan(
		&run.ID,
		&run.ProjectID,
		&run.ProjectName,
		&run.BoardName,
		&run.StudPitch,
		&preferYLong,
		&run.PanelCount,
		&run.CutPieceCount,
		&run.ViolationCount,
		&run.SheetCount,
		&run.UnplacedCount,
		&run.Utilization,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	run.PreferYLong = preferYLong != 0
	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return run, nil
}

// timeLayout is fixed width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
