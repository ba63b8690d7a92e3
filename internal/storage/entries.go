package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// insertChunk bounds the rows per INSERT to stay below the 65535 bind
// parameter limit.
const insertChunk = 1000

const entryColumns = 8

// EntryFilter selects stored entries. Start and End are inclusive ISO dates;
// empty fields do not filter.
type EntryFilter struct {
	UserID    int
	Start     string
	End       string
	Exercises []string
	Source    string
	ImportID  uuid.UUID
	Limit     int
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// InsertEntries batch-inserts entry rows. Rows whose fingerprint already
// exists for the user are skipped. Returns count inserted.
func (db *DB) InsertEntries(ctx context.Context, rows []models.EntryRow) (int64, error) {
	var total int64
	for start := 0; start < len(rows); start += insertChunk {
		end := min(start+insertChunk, len(rows))
		n, err := db.insertEntryChunk(ctx, rows[start:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (db *DB) insertEntryChunk(ctx context.Context, rows []models.EntryRow) (int64, error) {
	query := `INSERT INTO workout_entries (user_id, import_id, fingerprint, date, exercise, weight, reps, raw) VALUES `
	args := make([]any, 0, len(rows)*entryColumns)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		raw, err := json.Marshal(r.Entry.Raw)
		if err != nil {
			return 0, fmt.Errorf("encoding raw row: %w", err)
		}
		base := i * entryColumns
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args, r.UserID, r.ImportID, r.Fingerprint,
			r.Entry.Date, r.Entry.Exercise, r.Entry.Weight, r.Entry.Reps, raw)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT (user_id, fingerprint) DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting workout entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func buildEntriesQuery(f EntryFilter) (string, []any, error) {
	q := psql.Select("date", "exercise", "weight", "reps", "raw").
		From("workout_entries").
		Where(sq.Eq{"user_id": f.UserID})
	if f.Start != "" {
		q = q.Where(sq.GtOrEq{"date": f.Start})
	}
	if f.End != "" {
		q = q.Where(sq.LtOrEq{"date": f.End})
	}
	if len(f.Exercises) > 0 {
		q = q.Where(sq.Eq{"exercise": f.Exercises})
	}
	if f.Source != "" {
		q = q.Where(sq.Expr("raw->>'source' = ?", f.Source))
	}
	if f.ImportID != uuid.Nil {
		q = q.Where(sq.Eq{"import_id": f.ImportID})
	}
	q = q.OrderBy("date ASC", "id ASC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return q.ToSql()
}

// QueryEntries returns the matching entries oldest first, in insertion
// order within a date.
func (db *DB) QueryEntries(ctx context.Context, f EntryFilter) ([]models.WorkoutEntry, error) {
	query, args, err := buildEntriesQuery(f)
	if err != nil {
		return nil, fmt.Errorf("building entries query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workout entries: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutEntry
	for rows.Next() {
		var (
			e   models.WorkoutEntry
			raw []byte
		)
		if err := rows.Scan(&e.Date, &e.Exercise, &e.Weight, &e.Reps, &raw); err != nil {
			return nil, fmt.Errorf("scanning workout entry: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Raw); err != nil {
				return nil, fmt.Errorf("decoding raw row: %w", err)
			}
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// DeleteImport removes every entry of one import batch. Returns count deleted.
func (db *DB) DeleteImport(ctx context.Context, userID int, importID uuid.UUID) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_entries WHERE user_id = $1 AND import_id = $2`,
		userID, importID)
	if err != nil {
		return 0, fmt.Errorf("deleting import %s: %w", importID, err)
	}
	return tag.RowsAffected(), nil
}

// ListExercises returns the distinct stored exercise names, sorted.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]string, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT exercise FROM workout_entries WHERE user_id = $1 ORDER BY exercise`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
