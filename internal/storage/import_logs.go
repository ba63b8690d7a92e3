package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Import log statuses.
const (
	ImportRunning = "running"
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportLog is the bookkeeping row for one upload, sync or bulk import file.
type ImportLog struct {
	ID               int64            `json:"id"`
	UserID           int              `json:"user_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Source           string           `json:"source"`
	Status           string           `json:"status"`
	ImportID         *uuid.UUID       `json:"import_id"`
	RowsReceived     int              `json:"rows_received"`
	RowsSkipped      int              `json:"rows_skipped"`
	EntriesInserted  int64            `json:"entries_inserted"`
	EntriesDuplicate int64            `json:"entries_duplicate"`
	DurationMs       *int             `json:"duration_ms"`
	ErrorMessage     *string          `json:"error_message"`
	Metadata         *json.RawMessage `json:"metadata"`
}

// outcome holds the columns an import can still change after it starts.
func (l ImportLog) outcome() map[string]any {
	return map[string]any{
		"status":            l.Status,
		"import_id":         l.ImportID,
		"rows_received":     l.RowsReceived,
		"rows_skipped":      l.RowsSkipped,
		"entries_inserted":  l.EntriesInserted,
		"entries_duplicate": l.EntriesDuplicate,
		"duration_ms":       l.DurationMs,
		"error_message":     l.ErrorMessage,
		"metadata":          l.Metadata,
	}
}

// InsertImportLog stores log and returns its row ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	cols := log.outcome()
	cols["user_id"] = log.UserID
	cols["source"] = log.Source

	query, args, err := psql.Insert("import_logs").SetMap(cols).Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("building import log insert: %w", err)
	}
	var id int64
	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog overwrites the outcome columns of row id, typically when
// a running import finishes. User and source never change.
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	query, args, err := psql.Update("import_logs").
		SetMap(log.outcome()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building import log update: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

func buildImportLogsQuery(userID, limit int) (string, []any, error) {
	if limit <= 0 {
		limit = 50
	}
	return psql.Select(
		"id", "user_id", "created_at", "source", "status", "import_id",
		"rows_received", "rows_skipped", "entries_inserted", "entries_duplicate",
		"duration_ms", "error_message", "metadata",
	).
		From("import_logs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
}

// QueryImportLogs returns a user's most recent import logs, newest first.
// limit <= 0 means 50.
func (db *DB) QueryImportLogs(ctx context.Context, userID, limit int) ([]ImportLog, error) {
	query, args, err := buildImportLogsQuery(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("building import log query: %w", err)
	}
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var logs []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.Source, &l.Status, &l.ImportID,
			&l.RowsReceived, &l.RowsSkipped, &l.EntriesInserted, &l.EntriesDuplicate,
			&l.DurationMs, &l.ErrorMessage, &l.Metadata); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
