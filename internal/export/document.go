package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/models"
)

// Kinds lists the documents Document can render.
var Kinds = []string{"stats", "summary", "exercises", "records", "weekly", "entries"}

// ErrUnknownKind is returned for document kinds not in Kinds.
var ErrUnknownKind = errors.New("unknown export kind")

// Document renders one export document of entries in format. f is used by
// the kinds that estimate one-rep maxes; r is the admission window.
func Document(w io.Writer, kind string, format Format, entries []models.WorkoutEntry, f analysis.Formula, r analysis.DateRange) error {
	csv := format == CSV
	switch kind {
	case "stats":
		summary := analysis.ComputeStats(entries, r)
		stats := analysis.SortedExerciseStats(analysis.AggregateExerciseStats(entries, f, r))
		if csv {
			return StatsCSV(w, summary, stats)
		}
		return StatsJSON(w, summary, stats)
	case "summary":
		summary := analysis.ComputeStats(entries, r)
		if csv {
			return BasicStatsCSV(w, summary)
		}
		return BasicStatsJSON(w, summary)
	case "exercises":
		stats := analysis.SortedExerciseStats(analysis.AggregateExerciseStats(entries, f, r))
		if csv {
			return ExerciseStatsCSV(w, stats)
		}
		return ExerciseStatsJSON(w, stats)
	case "records":
		recs := analysis.PersonalRecords(entries, f, r)
		if csv {
			return RecordsCSV(w, recs)
		}
		return RecordsJSON(w, recs)
	case "weekly":
		weeks := analysis.AggregateWeeklySummary(entries, r)
		if csv {
			return WeeklyCSV(w, weeks)
		}
		return WeeklyJSON(w, weeks)
	case "entries":
		admitted := r.Filter(entries)
		if csv {
			return EntriesCSV(w, admitted)
		}
		return EntriesJSON(w, admitted)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// ContentType returns the MIME type of format.
func ContentType(format Format) string {
	if format == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}
