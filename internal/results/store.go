// Package results persists accumulated sweep output: one row per evaluated
// (period, phase) combination, grouped into runs.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/rae-holcomb/tess-scheduling/internal/sweep"
)

// schema contains the DDL executed on every open. IF NOT EXISTS makes it
// safe to run repeatedly.
const schema = `
CREATE TABLE IF NOT EXISTS sweeps (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    pointing    TEXT NOT NULL,
    sectors     INTEGER NOT NULL,
    half_window REAL NOT NULL,
    started_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rows (
    sweep_id INTEGER NOT NULL REFERENCES sweeps(id),
    period   REAL NOT NULL,
    phase    REAL NOT NULL,
    epoch    REAL NOT NULL,
    covered  INTEGER NOT NULL,
    first    INTEGER NOT NULL,
    last     INTEGER NOT NULL,
    transits INTEGER NOT NULL,
    err      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (sweep_id, period, phase)
);
`

// SweepMeta describes one recorded sweep run.
type SweepMeta struct {
	ID         int64     `json:"id"`
	Pointing   string    `json:"pointing"`
	Sectors    int       `json:"sectors"`
	HalfWindow float64   `json:"half_window"`
	StartedAt  time.Time `json:"started_at"`
}

// Store is a SQLite-backed result table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the result database at path, enables WAL mode
// and a busy timeout, and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("results: open database: %w", err)
	}

	// Single connection: SQLite has one writer, and a lone pooled
	// connection keeps the PRAGMA setup consistent.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("results: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// BeginSweep records a new sweep run and returns its ID.
func (s *Store) BeginSweep(ctx context.Context, pointing string, sectors int, halfWindow float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO sweeps (pointing, sectors, half_window) VALUES (?, ?, ?)",
		pointing, sectors, halfWindow)
	if err != nil {
		return 0, fmt.Errorf("results: begin sweep: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("results: sweep id: %w", err)
	}
	return id, nil
}

// InsertRows upserts sweep rows in a single transaction.
func (s *Store) InsertRows(ctx context.Context, sweepID int64, rows []sweep.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("results: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const q = `
		INSERT INTO rows (sweep_id, period, phase, epoch, covered, first, last, transits, err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sweep_id, period, phase) DO UPDATE SET
			epoch    = excluded.epoch,
			covered  = excluded.covered,
			first    = excluded.first,
			last     = excluded.last,
			transits = excluded.transits,
			err      = excluded.err`

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("results: prepare row upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, sweepID, r.Period, r.Phase, r.Epoch, r.Covered, r.First, r.Last, r.Transits, r.Err); err != nil {
			return fmt.Errorf("results: insert row P=%g phi=%g: %w", r.Period, r.Phase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("results: commit rows: %w", err)
	}
	return nil
}

// Sweeps returns all recorded sweep runs, newest first.
func (s *Store) Sweeps(ctx context.Context) ([]SweepMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, pointing, sectors, half_window, started_at FROM sweeps ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("results: query sweeps: %w", err)
	}
	defer rows.Close()

	var metas []SweepMeta
	for rows.Next() {
		var m SweepMeta
		var ts string
		if err := rows.Scan(&m.ID, &m.Pointing, &m.Sectors, &m.HalfWindow, &ts); err != nil {
			return nil, fmt.Errorf("results: scan sweep: %w", err)
		}
		startedAt, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("results: parse sweep timestamp: %w", err)
		}
		m.StartedAt = startedAt
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("results: iterate sweeps: %w", err)
	}
	return metas, nil
}

// Rows returns all rows of the given sweep ordered by period then phase.
func (s *Store) Rows(ctx context.Context, sweepID int64) ([]sweep.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT period, phase, epoch, covered, first, last, transits, err FROM rows WHERE sweep_id = ? ORDER BY period, phase",
		sweepID)
	if err != nil {
		return nil, fmt.Errorf("results: query rows: %w", err)
	}
	defer rows.Close()

	var out []sweep.Row
	for rows.Next() {
		var r sweep.Row
		if err := rows.Scan(&r.Period, &r.Phase, &r.Epoch, &r.Covered, &r.First, &r.Last, &r.Transits, &r.Err); err != nil {
			return nil, fmt.Errorf("results: scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("results: iterate rows: %w", err)
	}
	return out, nil
}

// ErrNoSweep is returned by LatestSweep when the store is empty.
var ErrNoSweep = errors.New("results: no sweeps recorded")

// LatestSweep returns the most recently started sweep.
func (s *Store) LatestSweep(ctx context.Context) (SweepMeta, error) {
	metas, err := s.Sweeps(ctx)
	if err != nil {
		return SweepMeta{}, err
	}
	if len(metas) == 0 {
		return SweepMeta{}, ErrNoSweep
	}
	return metas[0], nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339, while
// canonical SQLite returns the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", ts)
}
