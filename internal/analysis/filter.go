package analysis

import (
	"fmt"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// DateRange bounds the dates an analysis considers. Both ends are inclusive
// and a zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}

// ParseRange builds a DateRange from optional YYYY-MM-DD strings.
func ParseRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return r, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		r.Start = t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return r, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		r.End = t
	}
	return r, nil
}

// Contains reports whether d lies within the range.
func (r DateRange) Contains(d time.Time) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// Admit parses the entry date and reports whether the entry falls inside the
// range. Entries whose date does not parse are never admitted.
func (r DateRange) Admit(e models.WorkoutEntry) (time.Time, bool) {
	d, err := ParseDate(e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, r.Contains(d)
}

// Filter returns the admitted entries in input order.
func (r DateRange) Filter(entries []models.WorkoutEntry) []models.WorkoutEntry {
	out := make([]models.WorkoutEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := r.Admit(e); ok {
			out = append(out, e)
		}
	}
	return out
}
