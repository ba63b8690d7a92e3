package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	ImportID         uuid.UUID `json:"import_id"`
	Source           string    `json:"source"`
	RowsReceived     int       `json:"rows_received"`
	RowsSkipped      int       `json:"rows_skipped"`
	EntriesParsed    int       `json:"entries_parsed"`
	EntriesInserted  int64     `json:"entries_inserted"`
	EntriesDuplicate int64     `json:"entries_duplicate"`

	Message string `json:"message,omitempty"`
}

// EntryWriter persists entry rows. Rows whose fingerprint is already stored
// for the user are ignored and not counted.
type EntryWriter interface {
	InsertEntries(ctx context.Context, rows []models.EntryRow) (int64, error)
}

// Store writes entries as a single import batch for userID and fills the
// insert counters of res. A fresh import id is assigned when res has none.
func Store(ctx context.Context, w EntryWriter, userID int, entries []models.WorkoutEntry, res *Result) error {
	if res.ImportID == uuid.Nil {
		res.ImportID = uuid.New()
	}
	res.EntriesParsed = len(entries)
	if len(entries) == 0 {
		return nil
	}

	rows := make([]models.EntryRow, len(entries))
	for i, e := range entries {
		rows[i] = models.NewEntryRow(userID, res.ImportID, e)
	}
	inserted, err := w.InsertEntries(ctx, rows)
	if err != nil {
		return fmt.Errorf("inserting entries: %w", err)
	}
	res.EntriesInserted = inserted
	res.EntriesDuplicate = int64(len(rows)) - inserted
	return nil
}
