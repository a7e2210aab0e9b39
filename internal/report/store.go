package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/funvibe/distcheck/internal/diagnostics"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	module     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	errors     INTEGER NOT NULL,
	warnings   INTEGER NOT NULL,
	hits       INTEGER NOT NULL,
	misses     INTEGER NOT NULL,
	cycles     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	code     TEXT NOT NULL,
	severity TEXT NOT NULL,
	tag      TEXT NOT NULL,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	decl     TEXT NOT NULL,
	message  TEXT NOT NULL,
	extra    TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored checker run.
type Run struct {
	ID      uuid.UUID
	File    string
	Module  string
	Created time.Time
	Summary Summary
}

// Store keeps checker runs in a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway store.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection: a :memory: database is per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// notes and fix-its travel together in the extra column.
type extra struct {
	Notes  []diagnostics.Note  `yaml:"notes,omitempty"`
	FixIts []diagnostics.FixIt `yaml:"fixits,omitempty"`
}

// Save records a run and its diagnostics, returning the new run id.
func (s *Store) Save(ctx context.Context, file, module string, diags []*diagnostics.DiagnosticError, sum Summary) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, file, module, created_at, errors, warnings, hits, misses, cycles) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), file, module, s.now().UTC().Format(time.RFC3339Nano),
		sum.Errors, sum.Warnings, sum.Hits, sum.Misses, sum.Cycles,
	); err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}

	for i, r := range Records(diags) {
		blob, err := yaml.Marshal(extra{Notes: r.Notes, FixIts: r.FixIts})
		if err != nil {
			return uuid.Nil, fmt.Errorf("encoding notes of %s: %w", r.Code, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, seq, code, severity, tag, line, col, decl, message, extra) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(), i, r.Code, r.Severity, r.Tag, r.Line, r.Column, r.Decl, r.Message, string(blob),
		); err != nil {
			return uuid.Nil, fmt.Errorf("inserting diagnostic %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Runs lists stored runs, newest first. A non-empty file filters by unit.
func (s *Store) Runs(ctx context.Context, file string) ([]Run, error) {
	q := `SELECT id, file, module, created_at, errors, warnings, hits, misses, cycles FROM runs`
	var args []any
	if file != "" {
		q += ` WHERE file = ?`
		args = append(args, file)
	}
	q += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Run returns one stored run.
func (s *Store) Run(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file, module, created_at, errors, warnings, hits, misses, cycles FROM runs WHERE id = ?`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		id      string
		created string
	)
	if err := sc.Scan(&id, &run.File, &run.Module, &created,
		&run.Summary.Errors, &run.Summary.Warnings, &run.Summary.Hits, &run.Summary.Misses, &run.Summary.Cycles); err != nil {
		return Run{}, err
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("run id %q: %w", id, err)
	}
	if run.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Run{}, fmt.Errorf("run %s timestamp: %w", id, err)
	}
	return run, nil
}

// Diagnostics returns the records of a run in report order.
func (s *Store) Diagnostics(ctx context.Context, id uuid.UUID) ([]Record, error) {
	run, err := s.Run(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, severity, tag, line, col, decl, message, extra FROM diagnostics WHERE run_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading diagnostics of %s: %w", id, err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r := Record{File: run.File}
		var blob string
		if err := rows.Scan(&r.Code, &r.Severity, &r.Tag, &r.Line, &r.Column, &r.Decl, &r.Message, &blob); err != nil {
			return nil, err
		}
		var x extra
		if err := yaml.Unmarshal([]byte(blob), &x); err != nil {
			return nil, fmt.Errorf("decoding notes of %s: %w", r.Code, err)
		}
		r.Notes, r.FixIts = x.Notes, x.FixIts
		out = append(out, r)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep runs of file.
func (s *Store) Prune(ctx context.Context, file string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	runs, err := s.Runs(ctx, file)
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	for _, run := range runs[keep:] {
		if _, err := tx.ExecContext(ctx, `DELETE FROM diagnostics WHERE run_id = ?`, run.ID.String()); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID.String()); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(runs) - keep, nil
}
