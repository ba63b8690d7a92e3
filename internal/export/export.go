// Package export writes stats, records and entries as CSV or JSON documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/models"
)

// Format is an output document format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ErrUnknownFormat is returned for formats other than csv and json.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case CSV, JSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

var (
	basicStatsHeader    = []string{"total_workouts", "avg_sets_per_workout", "avg_reps_per_set", "avg_days_between", "most_common_exercise"}
	exerciseStatsHeader = []string{"exercise", "total_sets", "total_reps", "total_volume", "best_est_1rm"}
	recordsHeader       = []string{"exercise", "max_weight", "max_volume", "best_est_1rm"}
	weeklyHeader        = []string{"year", "week", "total_volume", "total_sets", "total_reps"}
	entriesHeader       = []string{"date", "exercise", "weight", "reps", "source", "title", "start_time", "set_index", "set_type", "rpe", "exercise_notes"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

func basicStatsRow(s analysis.BasicStats) []string {
	return []string{
		strconv.Itoa(s.TotalWorkouts),
		formatFloat(s.AvgSetsPerWorkout),
		formatFloat(s.AvgRepsPerSet),
		formatFloat(s.AvgDaysBetween),
		s.MostCommonExercise,
	}
}

func exerciseStatsRow(ex analysis.NamedExerciseStats) []string {
	return []string{
		ex.Exercise,
		strconv.Itoa(ex.Stats.TotalSets),
		strconv.Itoa(ex.Stats.TotalReps),
		formatFloat(ex.Stats.TotalVolume),
		formatOptFloat(ex.Stats.BestEst1RM),
	}
}

// BasicStatsCSV writes a header and one row.
func BasicStatsCSV(w io.Writer, s analysis.BasicStats) error {
	return writeRows(w, [][]string{basicStatsHeader, basicStatsRow(s)})
}

// BasicStatsJSON writes s as a JSON object.
func BasicStatsJSON(w io.Writer, s analysis.BasicStats) error {
	return writeJSON(w, s)
}

// ExerciseStatsCSV writes one row per exercise in the given order.
func ExerciseStatsCSV(w io.Writer, stats []analysis.NamedExerciseStats) error {
	rows := make([][]string, 0, len(stats)+1)
	rows = append(rows, exerciseStatsHeader)
	for _, s := range stats {
		rows = append(rows, exerciseStatsRow(s))
	}
	return writeRows(w, rows)
}

// ExerciseStatsJSON writes [[name, stats], ...] in the given order.
func ExerciseStatsJSON(w io.Writer, stats []analysis.NamedExerciseStats) error {
	return writeJSON(w, pairs(stats))
}

// pair marshals as a two-element JSON array.
type pair[T any] struct {
	name  string
	value T
}

func (p pair[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.name, p.value})
}

func pairs(stats []analysis.NamedExerciseStats) []pair[analysis.ExerciseStats] {
	out := make([]pair[analysis.ExerciseStats], len(stats))
	for i, s := range stats {
		out[i] = pair[analysis.ExerciseStats]{s.Exercise, s.Stats}
	}
	return out
}

// StatsDocument is the combined summary and per-exercise export.
type StatsDocument struct {
	Summary   analysis.BasicStats            `json:"summary"`
	Exercises []pair[analysis.ExerciseStats] `json:"exercises"`
}

// StatsJSON writes {"summary": ..., "exercises": [[name, stats], ...]}.
func StatsJSON(w io.Writer, summary analysis.BasicStats, stats []analysis.NamedExerciseStats) error {
	return writeJSON(w, StatsDocument{Summary: summary, Exercises: pairs(stats)})
}

// StatsCSV writes the summary block followed by the per-exercise block.
func StatsCSV(w io.Writer, summary analysis.BasicStats, stats []analysis.NamedExerciseStats) error {
	rows := [][]string{basicStatsHeader, basicStatsRow(summary), exerciseStatsHeader}
	for _, s := range stats {
		rows = append(rows, exerciseStatsRow(s))
	}
	return writeRows(w, rows)
}

// RecordsCSV writes one row per exercise. Absent records are empty cells.
func RecordsCSV(w io.Writer, recs []analysis.NamedRecord) error {
	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, recordsHeader)
	for _, r := range recs {
		rows = append(rows, []string{
			r.Exercise,
			formatOptFloat(r.Record.MaxWeight),
			formatOptFloat(r.Record.MaxVolume),
			formatOptFloat(r.Record.BestEst1RM),
		})
	}
	return writeRows(w, rows)
}

// RecordsJSON writes [[name, record], ...].
func RecordsJSON(w io.Writer, recs []analysis.NamedRecord) error {
	out := make([]pair[analysis.ExerciseRecord], len(recs))
	for i, r := range recs {
		out[i] = pair[analysis.ExerciseRecord]{r.Exercise, r.Record}
	}
	return writeJSON(w, out)
}

// WeeklyCSV writes one row per ISO week.
func WeeklyCSV(w io.Writer, weeks []analysis.WeeklySummary) error {
	rows := make([][]string, 0, len(weeks)+1)
	rows = append(rows, weeklyHeader)
	for _, wk := range weeks {
		rows = append(rows, []string{
			strconv.Itoa(wk.Year),
			strconv.Itoa(wk.Week),
			formatFloat(wk.TotalVolume),
			strconv.Itoa(wk.TotalSets),
			strconv.Itoa(wk.TotalReps),
		})
	}
	return writeRows(w, rows)
}

// WeeklyJSON writes the weekly summaries as an array.
func WeeklyJSON(w io.Writer, weeks []analysis.WeeklySummary) error {
	if weeks == nil {
		weeks = []analysis.WeeklySummary{}
	}
	return writeJSON(w, weeks)
}

// EntriesCSV writes one row per entry with its main provenance fields.
func EntriesCSV(w io.Writer, entries []models.WorkoutEntry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, entriesHeader)
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date,
			e.Exercise,
			formatOptFloat(e.Weight),
			formatOptInt(e.Reps),
			e.Raw.Source,
			e.Raw.Title,
			e.Raw.StartTime,
			formatOptInt(e.Raw.SetIndex),
			e.Raw.SetType,
			formatOptFloat(e.Raw.RPE),
			e.Raw.ExerciseNotes,
		})
	}
	return writeRows(w, rows)
}

// EntriesJSON writes the entries, including their raw payload, as an array.
func EntriesJSON(w io.Writer, entries []models.WorkoutEntry) error {
	if entries == nil {
		entries = []models.WorkoutEntry{}
	}
	return writeJSON(w, entries)
}

// ToFile creates path (and its parent directory) and hands it to write.
// Errors from write and from closing the file are both returned.
func ToFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}
