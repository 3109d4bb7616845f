package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"facilitator/internal/interval"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

// SQLStore keeps traces in Postgres (pgx) or SQLite (modernc).
type SQLStore struct {
	db         *sql.DB
	dialect    dialect
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db, dialect: dialectPostgres}, nil
}

func NewSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &SQLStore{db: db, dialect: dialectSQLite}, nil
}

// ensureSchema runs the DDL once per store and keeps its error, so it
// ignores the first caller's cancellation.
func (s *SQLStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		ctx := context.WithoutCancel(ctx)
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS interval_traces (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    state TEXT NOT NULL,
    mode TEXT NOT NULL DEFAULT '',
    items INTEGER NOT NULL DEFAULT 0,
    agenda_status TEXT NOT NULL DEFAULT '',
    llm_calls INTEGER NOT NULL DEFAULT 0,
    llm_failures INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    events TEXT NOT NULL DEFAULT '[]',
    result TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`)
		if s.schemaErr != nil {
			return
		}
		_, s.schemaErr = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_interval_traces_created ON interval_traces(created_at)`)
	})
	return s.schemaErr
}

// bind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) bind(q string) string {
	if s.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Save(ctx context.Context, t Trace) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	events, err := json.Marshal(t.Events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	_, err = s.db.ExecContext(ctx, s.bind(`
INSERT INTO interval_traces (id, kind, state, mode, items, agenda_status, llm_calls, llm_failures, error, events, result, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    state = excluded.state,
    mode = excluded.mode,
    items = excluded.items,
    agenda_status = excluded.agenda_status,
    llm_calls = excluded.llm_calls,
    llm_failures = excluded.llm_failures,
    error = excluded.error,
    events = excluded.events,
    result = excluded.result,
    updated_at = excluded.updated_at`),
		t.ID, t.Kind, string(t.State), t.Mode, t.Items, t.Status, t.Calls, t.Failures, t.Error,
		string(events), string(t.Result),
		t.CreatedAt.UTC().Format(time.RFC3339Nano), t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

const selectColumns = `id, kind, state, mode, items, agenda_status, llm_calls, llm_failures, error, events, result, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrace(row rowScanner) (Trace, error) {
	var (
		t                Trace
		state            string
		events, result   string
		created, updated string
	)
	if err := row.Scan(&t.ID, &t.Kind, &state, &t.Mode, &t.Items, &t.Status, &t.Calls, &t.Failures, &t.Error,
		&events, &result, &created, &updated); err != nil {
		return Trace{}, err
	}
	t.State = interval.State(state)
	if err := json.Unmarshal([]byte(events), &t.Events); err != nil {
		return Trace{}, fmt.Errorf("decode events: %w", err)
	}
	if result != "" {
		t.Result = json.RawMessage(result)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return t, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Trace, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Trace{}, fmt.Errorf("ensure schema: %w", err)
	}
	row := s.db.QueryRowContext(ctx, s.bind(`SELECT `+selectColumns+` FROM interval_traces WHERE id = ?`), id)
	t, err := scanTrace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Trace{}, ErrNotFound
	}
	return t, err
}

func (s *SQLStore) List(ctx context.Context, limit int) ([]Trace, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT `+selectColumns+` FROM interval_traces ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Trace
	for rows.Next() {
		t, err := scanTrace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error { return s.db.Close() }
