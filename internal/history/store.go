// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records each pipeline run's dataset in a SQLite database
// so past runs can be listed, compared, and re-exported without reparsing
// the reports.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/share-tracker/internal/series"
	"github.com/pdiddy/share-tracker/pkg/types"
)

// ErrNoRuns is returned when the database holds no recorded run.
var ErrNoRuns = errors.New("no runs recorded")

// Store manages the run-history database.
type Store struct {
	db *sql.DB
}

// Run summarizes one recorded pipeline run.
type Run struct {
	ID         int64
	RecordedAt time.Time
	BaseDir    string
	Backend    string

	Countries      int // series recorded, including empty ones
	Points         int // points across all series
	Substituted    int // points taken from a baseline trend value
	BaselineSeries int // countries given the full baseline series
	Empty          int // countries with no points
}

// Meta describes the run being recorded.
type Meta struct {
	RecordedAt time.Time
	BaseDir    string
	Backend    types.ExtractorBackend
}

// Open opens or creates the database at path, creating its directory and
// schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
			recorded_at TEXT NOT NULL,
			base_dir TEXT,
			backend TEXT,
			countries INTEGER,
			points INTEGER,
			substituted INTEGER,
			baseline_series INTEGER,
			empty INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS series (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			country_key TEXT NOT NULL,
			name TEXT NOT NULL,
			outcome TEXT,
			PRIMARY KEY (run_id, country_key)
		)`,
		`CREATE TABLE IF NOT EXISTS points (
			run_id INTEGER NOT NULL,
			country_key TEXT NOT NULL,
			seq INTEGER NOT NULL,
			period TEXT NOT NULL,
			share REAL NOT NULL,
			change REAL NOT NULL,
			source TEXT,
			PRIMARY KEY (run_id, country_key, seq),
			FOREIGN KEY (run_id, country_key) REFERENCES series(run_id, country_key) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_country ON points(country_key)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores ds and the per-country outcomes as a new run in one
// transaction and returns the stored run.
func (s *Store) Record(ctx context.Context, meta Meta, ds types.ExtractedDataset, outcomes map[string]series.Outcome) (Run, error) {
	if meta.RecordedAt.IsZero() {
		meta.RecordedAt = time.Now()
	}
	run := Run{
		RecordedAt: meta.RecordedAt.UTC(),
		BaseDir:    meta.BaseDir,
		Backend:    string(meta.Backend),
		Countries:  len(ds),
	}
	for key, cs := range ds {
		run.Points += cs.Len()
		for _, src := range cs.Sources {
			if src == types.SourceBaselinePeriod {
				run.Substituted++
			}
		}
		switch outcomes[key] {
		case series.OutcomeBaseline:
			run.BaselineSeries++
		case series.OutcomeEmpty:
			run.Empty++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (recorded_at, base_dir, backend, countries, points, substituted, baseline_series, empty)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RecordedAt.Format(time.RFC3339Nano), run.BaseDir, run.Backend,
		run.Countries, run.Points, run.Substituted, run.BaselineSeries, run.Empty,
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	if run.ID, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("reading run id: %w", err)
	}

	seriesStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO series (run_id, country_key, name, outcome) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing series insert: %w", err)
	}
	defer seriesStmt.Close()

	pointStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO points (run_id, country_key, seq, period, share, change, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing point insert: %w", err)
	}
	defer pointStmt.Close()

	for key, cs := range ds {
		if _, err := seriesStmt.ExecContext(ctx, run.ID, key, cs.Name, string(outcomes[key])); err != nil {
			return Run{}, fmt.Errorf("inserting series %s: %w", key, err)
		}
		for i, period := range cs.Periods {
			var src string
			if i < len(cs.Sources) {
				src = string(cs.Sources[i])
			}
			_, err := pointStmt.ExecContext(ctx, run.ID, key, i, period, cs.ShareValues[i], cs.ChangeValues[i], src)
			if err != nil {
				return Run{}, fmt.Errorf("inserting point %s/%s: %w", key, period, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

const runColumns = `id, recorded_at, base_dir, backend, countries, points, substituted, baseline_series, empty`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var recorded string
	if err := row.Scan(&r.ID, &recorded, &r.BaseDir, &r.Backend,
		&r.Countries, &r.Points, &r.Substituted, &r.BaselineSeries, &r.Empty); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, recorded)
	if err != nil {
		return Run{}, fmt.Errorf("parsing recorded_at %q: %w", recorded, err)
	}
	r.RecordedAt = t
	return r, nil
}

// Runs lists recorded runs, newest first. A limit of zero or less lists all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Latest returns the most recent run, or ErrNoRuns.
func (s *Store) Latest(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying latest run: %w", err)
	}
	return r, nil
}

// Dataset rebuilds the dataset and outcomes stored for runID.
func (s *Store) Dataset(ctx context.Context, runID int64) (types.ExtractedDataset, map[string]series.Outcome, error) {
	ds := make(types.ExtractedDataset)
	outcomes := make(map[string]series.Outcome)

	rows, err := s.db.QueryContext(ctx,
		`SELECT country_key, name, outcome FROM series WHERE run_id = ?`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying series: %w", err)
	}
	for rows.Next() {
		var key, name, outcome string
		if err := rows.Scan(&key, &name, &outcome); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scanning series: %w", err)
		}
		ds[key] = types.NewCountrySeries(name)
		outcomes[key] = series.Outcome(outcome)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(ds) == 0 {
		return nil, nil, fmt.Errorf("run %d: %w", runID, ErrNoRuns)
	}

	pts, err := s.db.QueryContext(ctx,
		`SELECT country_key, period, share, change, source FROM points
		 WHERE run_id = ? ORDER BY country_key, seq`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying points: %w", err)
	}
	defer pts.Close()

	for pts.Next() {
		var key, period, source string
		var share, change float64
		if err := pts.Scan(&key, &period, &share, &change, &source); err != nil {
			return nil, nil, fmt.Errorf("scanning point: %w", err)
		}
		cs, ok := ds[key]
		if !ok {
			continue
		}
		cs.Append(period, share, change, types.PointSource(source))
	}
	return ds, outcomes, pts.Err()
}

// LatestDataset returns the most recent run with its dataset and outcomes.
func (s *Store) LatestDataset(ctx context.Context) (Run, types.ExtractedDataset, map[string]series.Outcome, error) {
	run, err := s.Latest(ctx)
	if err != nil {
		return Run{}, nil, nil, err
	}
	ds, outcomes, err := s.Dataset(ctx, run.ID)
	if err != nil {
		return Run{}, nil, nil, err
	}
	return run, ds, outcomes, nil
}
