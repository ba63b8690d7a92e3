package storage

import (
	"context"
	"fmt"
)

// DataStats holds aggregate statistics about a user's stored entries.
type DataStats struct {
	TotalEntries    int64        `json:"total_entries"`
	TotalImports    int64        `json:"total_imports"`
	EarliestDate    *string      `json:"earliest_date"`
	LatestDate      *string      `json:"latest_date"`
	EntriesBySource []SourceStat `json:"entries_by_source"`
}

// SourceStat counts entries per import source.
type SourceStat struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// GetDataStats returns aggregate statistics for a user's stored entries.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{EntriesBySource: []SourceStat{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT import_id), MIN(date), MAX(date)
		 FROM workout_entries WHERE user_id = $1`, userID,
	).Scan(&stats.TotalEntries, &stats.TotalImports, &stats.EarliestDate, &stats.LatestDate)
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT COALESCE(raw->>'source', ''), COUNT(*)
		 FROM workout_entries WHERE user_id = $1
		 GROUP BY 1 ORDER BY 2 DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying entries by source: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SourceStat
		if err := rows.Scan(&s.Source, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning source stat: %w", err)
		}
		stats.EntriesBySource = append(stats.EntriesBySource, s)
	}
	return stats, rows.Err()
}
