// Package hevy reads workout CSV files: the Hevy app export and the plain
// date,exercise,weight,reps layout.
package hevy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// StartTimeLayout is the start_time format of Hevy exports: "26 Jul 2025, 07:06".
const StartTimeLayout = "02 Jan 2006, 15:04"

// Source names written to RawRow.Source.
const (
	SourceHevy = "hevy"
	SourceCSV  = "csv"
)

// ErrMissingColumn is returned when the header lacks a date or exercise column.
var ErrMissingColumn = errors.New("missing required column")

// Stats counts the data rows seen and dropped by Parse.
type Stats struct {
	Rows    int
	Skipped int
}

var startTimeLayouts = []string{
	StartTimeLayout,
	"2 Jan 2006, 15:04",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// known lists the columns mapped onto WorkoutEntry or RawRow. Anything else
// is kept in RawRow.Extra.
var known = map[string]bool{
	"date": true, "exercise": true, "weight": true, "reps": true,
	"title": true, "start_time": true, "end_time": true, "description": true,
	"exercise_title": true, "superset_id": true, "exercise_notes": true,
	"set_index": true, "set_type": true, "weight_lbs": true, "weight_kg": true,
	"distance_miles": true, "duration_seconds": true, "rpe": true, "rir": true,
	"equipment": true,
}

// bom is the UTF-8 byte order mark some spreadsheet tools prepend.
const bom = "\ufeff"

type header map[string]int

func (h header) get(rec []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (h header) floatVal(rec []string, col string) *float64 {
	s := h.get(rec, col)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func (h header) intVal(rec []string, col string) *int {
	s := h.get(rec, col)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	// Some exports write counts as "10.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return nil
	}
	n := int(f)
	return &n
}

// Parse reads a workout CSV and returns one entry per set that has a date,
// an exercise, a weight and a rep count. Weights are converted to kilograms.
// Rows that cannot be used are counted in Stats.Skipped.
func Parse(r io.Reader) ([]models.WorkoutEntry, Stats, error) {
	var stats Stats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err == io.EOF {
		return nil, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("reading header: %w", err)
	}

	h := make(header, len(first))
	for i, name := range first {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bom)))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	exerciseCol := "exercise_title"
	if _, ok := h[exerciseCol]; !ok {
		exerciseCol = "exercise"
	}
	if _, ok := h[exerciseCol]; !ok {
		return nil, stats, fmt.Errorf("%w: exercise_title or exercise", ErrMissingColumn)
	}
	_, hasStart := h["start_time"]
	_, hasDate := h["date"]
	if !hasStart && !hasDate {
		return nil, stats, fmt.Errorf("%w: start_time or date", ErrMissingColumn)
	}
	source := SourceHevy
	if exerciseCol == "exercise" {
		source = SourceCSV
	}

	var entries []models.WorkoutEntry
	// Rows without a set_index are numbered within their (date, exercise)
	// group in file order.
	ordinal := make(map[[2]string]int)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				stats.Rows++
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("reading row: %w", err)
		}
		stats.Rows++

		e, ok := h.entry(rec, exerciseCol, source, first)
		if !ok {
			stats.Skipped++
			continue
		}
		if e.Raw.SetIndex == nil {
			key := [2]string{e.Date, e.Exercise}
			e.Raw.SetIndex = models.Int(ordinal[key])
			ordinal[key]++
		}
		entries = append(entries, e)
	}
	return entries, stats, nil
}

func (h header) entry(rec []string, exerciseCol, source string, names []string) (models.WorkoutEntry, bool) {
	raw := models.RawRow{
		Source:        source,
		Title:         h.get(rec, "title"),
		StartTime:     h.get(rec, "start_time"),
		EndTime:       h.get(rec, "end_time"),
		Description:   h.get(rec, "description"),
		SupersetID:    h.get(rec, "superset_id"),
		ExerciseNotes: h.get(rec, "exercise_notes"),
		SetIndex:      h.intVal(rec, "set_index"),
		SetType:       h.get(rec, "set_type"),
		WeightLbs:     h.floatVal(rec, "weight_lbs"),
		WeightKg:      h.floatVal(rec, "weight_kg"),
		Distance:      h.floatVal(rec, "distance_miles"),
		Duration:      h.floatVal(rec, "duration_seconds"),
		RPE:           h.floatVal(rec, "rpe"),
		RIR:           h.floatVal(rec, "rir"),
		Equipment:     h.get(rec, "equipment"),
	}
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bom)))
		if known[key] || i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
			continue
		}
		if raw.Extra == nil {
			raw.Extra = make(map[string]string)
		}
		raw.Extra[key] = strings.TrimSpace(rec[i])
	}

	exercise := h.get(rec, exerciseCol)
	if exercise == "" {
		return models.WorkoutEntry{}, false
	}
	date, ok := entryDate(h.get(rec, "date"), raw.StartTime)
	if !ok {
		return models.WorkoutEntry{}, false
	}

	weight := h.floatVal(rec, "weight")
	switch {
	case weight != nil:
	case raw.WeightKg != nil:
		weight = models.Float(*raw.WeightKg)
	case raw.WeightLbs != nil:
		weight = models.Float(*raw.WeightLbs * models.KgPerLb)
	}
	reps := h.intVal(rec, "reps")
	if weight == nil || reps == nil {
		return models.WorkoutEntry{}, false
	}

	return models.WorkoutEntry{
		Date:     date,
		Exercise: exercise,
		Weight:   weight,
		Reps:     reps,
		Raw:      raw,
	}, true
}

// entryDate prefers an explicit ISO date column and falls back to the date
// part of start_time.
func entryDate(date, startTime string) (string, bool) {
	if date != "" {
		if _, err := time.Parse(models.DateLayout, date); err == nil {
			return date, true
		}
		return "", false
	}
	if startTime == "" {
		return "", false
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, startTime); err == nil {
			return t.Format(models.DateLayout), true
		}
	}
	return "", false
}
