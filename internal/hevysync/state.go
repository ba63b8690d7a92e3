package hevysync

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

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// timeLayout keeps stored timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded sync attempt.
type Run struct {
	ID              uuid.UUID  `json:"id"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	Status          string     `json:"status"`
	After           string     `json:"after,omitempty"`
	EntriesReceived int        `json:"entries_received"`
	EntriesInserted int64      `json:"entries_inserted"`
	Error           string     `json:"error,omitempty"`
}

// StateDB records sync runs so the next run only asks for newer workouts.
type StateDB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStateDB opens (or creates) the SQLite state database at dir/sync.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "sync.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sync_runs (
		id               TEXT PRIMARY KEY,
		started_at       TEXT NOT NULL,
		finished_at      TEXT,
		status           TEXT NOT NULL,
		after_cursor     TEXT NOT NULL DEFAULT '',
		entries_received INTEGER NOT NULL DEFAULT 0,
		entries_inserted INTEGER NOT NULL DEFAULT 0,
		error            TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sync_runs table: %w", err)
	}

	return &StateDB{db: db, now: time.Now}, nil
}

// StartRun records a running sync and returns its id.
func (s *StateDB) StartRun(ctx context.Context, after string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, started_at, status, after_cursor) VALUES (?, ?, ?, ?)`,
		id.String(), s.now().UTC().Format(timeLayout), StatusRunning, after,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting sync run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run as succeeded, or failed when runErr is non-nil.
func (s *StateDB) FinishRun(ctx context.Context, id uuid.UUID, received int, inserted int64, runErr error) error {
	status, msg := StatusSuccess, ""
	if runErr != nil {
		status, msg = StatusError, runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET finished_at = ?, status = ?, entries_received = ?, entries_inserted = ?, error = ?
		 WHERE id = ?`,
		s.now().UTC().Format(timeLayout), status, received, inserted, msg, id.String(),
	)
	if err != nil {
		return fmt.Errorf("updating sync run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sync run %s not found", id)
	}
	return nil
}

// LastSuccessfulSync returns the start time of the most recent successful
// run. ok is false when no run has succeeded yet.
func (s *StateDB) LastSuccessfulSync(ctx context.Context) (t time.Time, ok bool, err error) {
	var started string
	err = s.db.QueryRowContext(ctx,
		`SELECT started_at FROM sync_runs WHERE status = ? ORDER BY started_at DESC LIMIT 1`,
		StatusSuccess,
	).Scan(&started)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying last sync: %w", err)
	}
	t, err = time.Parse(timeLayout, started)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing last sync time %q: %w", started, err)
	}
	return t, true, nil
}

// Runs returns the most recent runs, newest first.
func (s *StateDB) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, status, after_cursor, entries_received, entries_inserted, error
		 FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r           Run
			id, started string
			finished    sql.NullString
		)
		if err := rows.Scan(&id, &started, &finished, &r.Status, &r.After,
			&r.EntriesReceived, &r.EntriesInserted, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing sync run id: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if finished.Valid {
			ft, err := time.Parse(timeLayout, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parsing finished_at: %w", err)
			}
			r.FinishedAt = &ft
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
