// Package simstore provides SQLite-based persistent storage for simulation
// runs: the set of seed documents and tick causes a daemon has produced.
// Grounded on the teacher's internal/infra/sqlite package — same WAL-mode,
// single-writer, pure-Go driver setup, generalized from model records to
// run/cause records.
package simstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"github.com/aeonis-sim/aeonis/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/aeonis.db. Enables WAL
// mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "aeonis.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error { return d.db.Close() }

// Ping checks database connectivity.
func (d *DB) Ping() error { return d.db.Ping() }

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			seed_name   TEXT NOT NULL,
			world_seed  INTEGER NOT NULL,
			width       INTEGER NOT NULL,
			height      INTEGER NOT NULL,
			started_at  INTEGER NOT NULL,
			last_tick   INTEGER NOT NULL DEFAULT 0,
			last_seen   INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS run_causes (
			run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			tick    INTEGER NOT NULL,
			target  TEXT NOT NULL,
			code    TEXT NOT NULL,
			note    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_causes_run_tick ON run_causes(run_id, tick)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// Run is a persisted record of one simulation run's identity and progress.
type Run struct {
	ID        string
	SeedName  string
	WorldSeed uint64
	Width     uint32
	Height    uint32
	StartedAt time.Time
	LastTick  uint64
	LastSeen  time.Time
}

// CreateRun inserts a new run record.
func (d *DB) CreateRun(r Run) error {
	_, err := d.db.Exec(
		`INSERT INTO runs (id, seed_name, world_seed, width, height, started_at, last_tick, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SeedName, r.WorldSeed, r.Width, r.Height, r.StartedAt.Unix(), r.LastTick, nullableUnix(r.LastSeen),
	)
	return err
}

// TouchRun advances a run's last_tick/last_seen after a tick is produced.
func (d *DB) TouchRun(id string, tick uint64) error {
	_, err := d.db.Exec(
		`UPDATE runs SET last_tick = ?, last_seen = ? WHERE id = ?`,
		tick, time.Now().Unix(), id,
	)
	return err
}

// GetRun retrieves a single run by id.
func (d *DB) GetRun(id string) (*Run, error) {
	row := d.db.QueryRow(
		`SELECT id, seed_name, world_seed, width, height, started_at, last_tick, last_seen FROM runs WHERE id = ?`, id,
	)
	return scanRun(row)
}

// ListRuns returns all runs ordered by most recently seen.
func (d *DB) ListRuns() ([]Run, error) {
	rows, err := d.db.Query(
		`SELECT id, seed_name, world_seed, width, height, started_at, last_tick, last_seen
		 FROM runs ORDER BY COALESCE(last_seen, started_at) DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// RecordCauses persists a tick's causes for later replay/audit. A tick with
// no causes is a no-op — run_causes only ever grows on ticks that explain
// something.
func (d *DB) RecordCauses(runID string, tick uint64, causes []domain.Cause) error {
	if len(causes) == 0 {
		return nil
	}
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO run_causes (run_id, tick, target, code, note) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, c := range causes {
		if _, err := stmt.Exec(runID, tick, c.Target, string(c.Code), c.Note); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CausesForTick returns the causes recorded for one run at one tick, in
// their original insertion order.
func (d *DB) CausesForTick(runID string, tick uint64) ([]domain.Cause, error) {
	rows, err := d.db.Query(
		`SELECT target, code, note FROM run_causes WHERE run_id = ? AND tick = ? ORDER BY rowid`,
		runID, tick,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var causes []domain.Cause
	for rows.Next() {
		var c domain.Cause
		var code string
		if err := rows.Scan(&c.Target, &code, &c.Note); err != nil {
			return nil, err
		}
		c.Code = domain.CauseCode(code)
		causes = append(causes, c)
	}
	return causes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var startedAt int64
	var lastSeen sql.NullInt64
	err := s.Scan(&r.ID, &r.SeedName, &r.WorldSeed, &r.Width, &r.Height, &startedAt, &r.LastTick, &lastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.StartedAt = time.Unix(startedAt, 0)
	if lastSeen.Valid {
		r.LastSeen = time.Unix(lastSeen.Int64, 0)
	}
	return &r, nil
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
