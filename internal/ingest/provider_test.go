package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

type fakeWriter struct {
	rows     []models.EntryRow
	inserted int64
	err      error
}

func (f *fakeWriter) InsertEntries(_ context.Context, rows []models.EntryRow) (int64, error) {
	f.rows = append(f.rows, rows...)
	return f.inserted, f.err
}

// TestStoreAssignsBatch verifies that every row of an import shares one
// import id and that duplicates are derived from the insert count.
func TestStoreAssignsBatch(t *testing.T) {
	w := &fakeWriter{inserted: 1}
	entries := []models.WorkoutEntry{
		{Date: "2024-01-01", Exercise: "Squat (Barbell)", Weight: models.Float(100), Reps: models.Int(5)},
		{Date: "2024-01-01", Exercise: "Squat (Barbell)", Weight: models.Float(105), Reps: models.Int(5)},
	}
	res := &Result{Source: "hevy"}
	if err := Store(context.Background(), w, 7, entries, res); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if res.ImportID == uuid.Nil {
		t.Fatal("import id not assigned")
	}
	if len(w.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(w.rows))
	}
	for _, r := range w.rows {
		if r.ImportID != res.ImportID || r.UserID != 7 {
			t.Errorf("row = %+v, want import %s user 7", r, res.ImportID)
		}
		if r.Fingerprint == "" {
			t.Error("row without fingerprint")
		}
	}
	if res.EntriesInserted != 1 || res.EntriesDuplicate != 1 {
		t.Errorf("inserted/duplicate = %d/%d, want 1/1", res.EntriesInserted, res.EntriesDuplicate)
	}
}

// TestStoreEmpty verifies that an empty batch never reaches the writer.
func TestStoreEmpty(t *testing.T) {
	w := &fakeWriter{err: errors.New("should not be called")}
	res := &Result{}
	if err := Store(context.Background(), w, 1, nil, res); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if w.rows != nil {
		t.Errorf("writer called with %d rows", len(w.rows))
	}
}

// TestStoreError verifies that writer failures are wrapped and returned.
func TestStoreError(t *testing.T) {
	boom := errors.New("boom")
	w := &fakeWriter{err: boom}
	err := Store(context.Background(), w, 1, []models.WorkoutEntry{{Date: "2024-01-01", Exercise: "Plank"}}, &Result{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}
