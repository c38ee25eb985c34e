// Package history records export and import runs in sqlite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vmunix/assetsbridge/internal/migrations"
)

// Directions of a run.
const (
	DirectionExport = "export"
	DirectionImport = "import"
)

// ErrNotFound indicates the requested run doesn't exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded operator invocation.
type Run struct {
	ID        uuid.UUID
	Direction string
	Operation string
	TaskFile  string
	Status    string
	Units     int
	Failures  int
	Data      string // JSON blob of reports
	CreatedAt time.Time
}

// Filter specifies criteria for listing runs.
type Filter struct {
	Direction *string
	TaskFile  *string
	Limit     int
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// New creates a store over an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the sqlite database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared between calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return New(db), nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a run, assigning its ID and timestamp.
func (s *Store) Add(ctx context.Context, r *Run) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Data == "" {
		r.Data = "{}"
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, direction, operation, task_file, status, units, failures, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Direction, r.Operation, r.TaskFile, r.Status, r.Units, r.Failures, r.Data, now,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	r.CreatedAt = now
	return nil
}

const selectRuns = `SELECT id, direction, operation, task_file, status, units, failures, data, created_at FROM runs `

// Get returns a run by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+`WHERE id = ?`, id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// List returns runs matching the filter, most recent first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Run, error) {
	var conditions []string
	var args []any

	if f.Direction != nil {
		conditions = append(conditions, "direction = ?")
		args = append(args, *f.Direction)
	}
	if f.TaskFile != nil {
		conditions = append(conditions, "task_file = ?")
		args = append(args, *f.TaskFile)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := selectRuns + whereClause + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r  Run
		id string
	)
	if err := sc.Scan(&id, &r.Direction, &r.Operation, &r.TaskFile, &r.Status, &r.Units, &r.Failures, &r.Data, &r.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	r.ID = parsed
	return &r, nil
}
