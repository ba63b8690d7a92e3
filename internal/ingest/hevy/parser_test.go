package hevy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/meltforce/liftlog/internal/models"
)

const hevyHeader = "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_lbs,reps,distance_miles,duration_seconds,rpe\n"

// TestParseHevyExport verifies the happy path for a Hevy export row with
// pound weights.
func TestParseHevyExport(t *testing.T) {
	data := hevyHeader +
		`Week 12 - Lower - Strength,"26 Jul 2025, 07:06","26 Jul 2025, 08:11",desc,"Lying Leg Curl (Machine)",,,0,warmup,100,10,,,` + "\n"

	entries, stats, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if stats.Rows != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 1 row, 0 skipped", stats)
	}

	e := entries[0]
	if e.Date != "2025-07-26" {
		t.Errorf("Date = %q, want 2025-07-26", e.Date)
	}
	if e.Exercise != "Lying Leg Curl (Machine)" {
		t.Errorf("Exercise = %q", e.Exercise)
	}
	if math.Abs(*e.Weight-45.359237) > 1e-9 {
		t.Errorf("Weight = %f, want 45.359237 kg", *e.Weight)
	}
	if *e.Reps != 10 {
		t.Errorf("Reps = %d, want 10", *e.Reps)
	}
	if e.Raw.WeightLbs == nil || *e.Raw.WeightLbs != 100 {
		t.Errorf("Raw.WeightLbs = %v, want 100", e.Raw.WeightLbs)
	}
	if e.Raw.SetType != "warmup" || e.Raw.SetIndex == nil || *e.Raw.SetIndex != 0 {
		t.Errorf("Raw set = %q/%v", e.Raw.SetType, e.Raw.SetIndex)
	}
	if e.Raw.Source != SourceHevy {
		t.Errorf("Raw.Source = %q, want %q", e.Raw.Source, SourceHevy)
	}
}

// TestParseWeightKg verifies that kilogram exports are stored unchanged.
func TestParseWeightKg(t *testing.T) {
	data := "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_kg,reps,distance_miles,duration_seconds,rpe\n" +
		`Week 1 - Upper,"27 Jul 2025, 07:00",,desc,Bench Press,,,0,normal,50,8,,,8.5` + "\n"

	entries, _, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if *e.Weight != 50 {
		t.Errorf("Weight = %f, want 50", *e.Weight)
	}
	if e.Raw.WeightLbs != nil {
		t.Errorf("Raw.WeightLbs = %v, want nil", *e.Raw.WeightLbs)
	}
	if e.Raw.RPE == nil || *e.Raw.RPE != 8.5 {
		t.Errorf("Raw.RPE = %v, want 8.5", e.Raw.RPE)
	}
}

// TestParseSkipsMissingLoad verifies that rows without weight or reps are
// dropped and counted.
func TestParseSkipsMissingLoad(t *testing.T) {
	data := hevyHeader +
		`Week 1,"01 Jan 2024, 10:00",,desc,Bench Press,,,0,normal,,5,,,` + "\n" +
		`Week 1,"01 Jan 2024, 10:05",,desc,Bench Press,,,1,normal,135,,,,` + "\n" +
		`Week 1,"01 Jan 2024, 10:10",,desc,Bench Press,,,2,normal,135,5,,,` + "\n"

	entries, stats, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if *entries[0].Reps != 5 || *entries[0].Raw.SetIndex != 2 {
		t.Errorf("kept wrong row: %+v", entries[0])
	}
	if stats.Rows != 3 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 3 rows, 2 skipped", stats)
	}
}

// TestParseCanonicalLayout verifies the four-column layout and that unknown
// columns are preserved.
func TestParseCanonicalLayout(t *testing.T) {
	data := "date,exercise,weight,reps,gym\n" +
		"2024-01-01,Squat (Barbell),100,5,Downtown\n" +
		"2024-13-01,Squat (Barbell),100,5,\n" +
		"2024-01-03,Squat (Barbell),102.5,5.0,\n"

	entries, stats, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.Skipped)
	}
	if entries[0].Raw.Source != SourceCSV {
		t.Errorf("Raw.Source = %q, want %q", entries[0].Raw.Source, SourceCSV)
	}
	if got := entries[0].Raw.Extra["gym"]; got != "Downtown" {
		t.Errorf("Extra[gym] = %q, want Downtown", got)
	}
	if entries[1].Raw.Extra != nil {
		t.Errorf("Extra = %v, want nil for empty cells", entries[1].Raw.Extra)
	}
	if *entries[1].Reps != 5 || *entries[1].Weight != 102.5 {
		t.Errorf("second entry = %v/%v", *entries[1].Weight, *entries[1].Reps)
	}
}

// TestParseHeaderCase verifies header matching ignores case, padding and a BOM.
func TestParseHeaderCase(t *testing.T) {
	data := "\ufeffDate, Exercise ,WEIGHT,Reps\n2024-01-01,Plank,0,1\n"
	entries, _, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(entries) != 1 || entries[0].Exercise != "Plank" {
		t.Errorf("entries = %+v", entries)
	}
}

// TestParseMissingColumns verifies header validation.
func TestParseMissingColumns(t *testing.T) {
	tests := []string{
		"date,weight,reps\n",
		"exercise,weight,reps\n",
	}
	for _, data := range tests {
		_, _, err := Parse(strings.NewReader(data))
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("Parse(%q) err = %v, want ErrMissingColumn", data, err)
		}
	}
}

// TestParseEmptyInput verifies that empty input yields no entries and no error.
func TestParseEmptyInput(t *testing.T) {
	entries, _, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

// TestParseBadQuoteSkipsRow verifies a malformed row does not abort the file.
func TestParseBadQuoteSkipsRow(t *testing.T) {
	data := "date,exercise,weight,reps\n" +
		"2024-01-01,Bad \"quote,1,1\n" +
		"2024-01-02,Plank,0,1\n"
	entries, stats, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", stats.Skipped)
	}
}

type memWriter struct {
	rows []models.EntryRow
	seen map[string]bool
}

func (m *memWriter) InsertEntries(_ context.Context, rows []models.EntryRow) (int64, error) {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	var n int64
	for _, r := range rows {
		if m.seen[r.Fingerprint] {
			continue
		}
		m.seen[r.Fingerprint] = true
		m.rows = append(m.rows, r)
		n++
	}
	return n, nil
}

// TestProviderReimportIsIdempotent verifies that ingesting the same file
// twice stores its sets once.
func TestProviderReimportIsIdempotent(t *testing.T) {
	data := hevyHeader +
		`Push,"01 Jan 2024, 10:00",,,Bench Press (Barbell),,,0,normal,135,5,,,` + "\n" +
		`Push,"01 Jan 2024, 10:00",,,Bench Press (Barbell),,,1,normal,135,5,,,` + "\n"

	w := &memWriter{}
	p := NewProvider(w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	first, err := p.Ingest(context.Background(), strings.NewReader(data), 1)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if first.EntriesInserted != 2 {
		t.Errorf("first inserted = %d, want 2", first.EntriesInserted)
	}

	second, err := p.Ingest(context.Background(), strings.NewReader(data), 1)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.EntriesInserted != 0 || second.EntriesDuplicate != 2 {
		t.Errorf("second = %d inserted, %d duplicate; want 0, 2", second.EntriesInserted, second.EntriesDuplicate)
	}
	if first.ImportID == second.ImportID {
		t.Error("imports share an id")
	}
}

// TestParseRepeatedCanonicalSets verifies that identical sets in the
// four-column layout get positional set indexes and distinct fingerprints.
func TestParseRepeatedCanonicalSets(t *testing.T) {
	data := "date,exercise,weight,reps\n" +
		"2024-01-01,Squat,100,5\n" +
		"2024-01-01,Bench Press,60,8\n" +
		"2024-01-01,Squat,100,5\n" +
		"2024-01-01,Squat,100,5\n" +
		"2024-01-02,Squat,100,5\n"

	entries, _, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := []int{0, 0, 1, 2, 0}
	fingerprints := map[string]bool{}
	for i, e := range entries {
		if e.Raw.SetIndex == nil || *e.Raw.SetIndex != want[i] {
			t.Errorf("entry %d SetIndex = %v, want %d", i, e.Raw.SetIndex, want[i])
		}
		fingerprints[models.Fingerprint(e)] = true
	}
	if len(fingerprints) != len(entries) {
		t.Errorf("distinct fingerprints = %d, want %d", len(fingerprints), len(entries))
	}
}

// TestProviderKeepsRepeatedCanonicalSets verifies 3x5 at the same load is
// stored as three sets and that re-ingesting it stores nothing new.
func TestProviderKeepsRepeatedCanonicalSets(t *testing.T) {
	data := "date,exercise,weight,reps\n" + strings.Repeat("2024-01-01,Squat,100,5\n", 3)

	w := &memWriter{}
	p := NewProvider(w, slog.New(slog.NewTextHandler(io.Discard, nil)))

	first, err := p.Ingest(context.Background(), strings.NewReader(data), 1)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if first.EntriesInserted != 3 || first.EntriesDuplicate != 0 {
		t.Errorf("first = %d inserted, %d duplicate; want 3, 0", first.EntriesInserted, first.EntriesDuplicate)
	}
	var volume float64
	for _, r := range w.rows {
		volume += *r.Entry.Weight * float64(*r.Entry.Reps)
	}
	if volume != 1500 {
		t.Errorf("stored volume = %v, want 1500", volume)
	}

	second, err := p.Ingest(context.Background(), strings.NewReader(data), 1)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.EntriesInserted != 0 || second.EntriesDuplicate != 3 {
		t.Errorf("second = %d inserted, %d duplicate; want 0, 3", second.EntriesInserted, second.EntriesDuplicate)
	}
}
