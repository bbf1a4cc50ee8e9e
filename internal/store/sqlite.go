package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs and assumption versions to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS simulation_runs (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			tenant_id  TEXT,
			outcome    TEXT,
			products   INTEGER,
			created_at INTEGER NOT NULL,
			request    BLOB,
			response   BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON simulation_runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS assumption_versions (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			label      TEXT,
			created_at INTEGER NOT NULL,
			data       BLOB NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO simulation_runs (id, tenant_id, outcome, products, created_at, request, response)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TenantID, run.Outcome, run.Products, run.CreatedAt.UnixMilli(), run.Request, run.Response)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, outcome, products, created_at, request, response
		 FROM simulation_runs WHERE id = ?`, id)

	var run Run
	var created int64
	err := row.Scan(&run.ID, &run.TenantID, &run.Outcome, &run.Products, &created, &run.Request, &run.Response)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select run %s: %w", id, err)
	}
	run.CreatedAt = time.UnixMilli(created).UTC()
	return &run, nil
}

// ListRuns returns the most recent runs first, without their payloads.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, outcome, products, created_at
		 FROM simulation_runs ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var created int64
		if err := rows.Scan(&run.ID, &run.TenantID, &run.Outcome, &run.Products, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(created).UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveAssumptions(ctx context.Context, v *AssumptionVersion) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assumption_versions (id, label, created_at, data) VALUES (?, ?, ?, ?)`,
		v.ID, v.Label, v.CreatedAt.UnixMilli(), v.Data)
	if err != nil {
		return fmt.Errorf("insert assumptions %s: %w", v.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetAssumptions(ctx context.Context, id string) (*AssumptionVersion, error) {
	return s.scanAssumptions(s.db.QueryRowContext(ctx,
		`SELECT id, label, created_at, data FROM assumption_versions WHERE id = ?`, id))
}

func (s *SQLiteStore) LatestAssumptions(ctx context.Context) (*AssumptionVersion, error) {
	return s.scanAssumptions(s.db.QueryRowContext(ctx,
		`SELECT id, label, created_at, data FROM assumption_versions ORDER BY seq DESC LIMIT 1`))
}

func (s *SQLiteStore) scanAssumptions(row *sql.Row) (*AssumptionVersion, error) {
	var v AssumptionVersion
	var created int64
	err := row.Scan(&v.ID, &v.Label, &created, &v.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select assumptions: %w", err)
	}
	v.CreatedAt = time.UnixMilli(created).UTC()
	return &v, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
