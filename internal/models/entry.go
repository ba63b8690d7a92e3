package models

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar date format used by WorkoutEntry.Date.
const DateLayout = "2006-01-02"

// WorkoutEntry is one performed set. Weight is in kilograms.
type WorkoutEntry struct {
	Date     string   `json:"date"`
	Exercise string   `json:"exercise"`
	Weight   *float64 `json:"weight"`
	Reps     *int     `json:"reps"`
	Raw      RawRow   `json:"raw"`
}

// WeightOrZero returns the set weight, or 0 when it is missing.
func (e WorkoutEntry) WeightOrZero() float64 {
	if e.Weight == nil {
		return 0
	}
	return *e.Weight
}

// RepsOrZero returns the rep count, or 0 when it is missing.
func (e WorkoutEntry) RepsOrZero() int {
	if e.Reps == nil {
		return 0
	}
	return *e.Reps
}

// HasLoad reports whether both weight and reps are present.
func (e WorkoutEntry) HasLoad() bool {
	return e.Weight != nil && e.Reps != nil
}

// RawRow carries the provenance fields of the row an entry was built from.
// The analytics engine never interprets it.
type RawRow struct {
	Source        string            `json:"source,omitempty"`
	Title         string            `json:"title,omitempty"`
	StartTime     string            `json:"start_time,omitempty"`
	EndTime       string            `json:"end_time,omitempty"`
	Description   string            `json:"description,omitempty"`
	SupersetID    string            `json:"superset_id,omitempty"`
	ExerciseNotes string            `json:"exercise_notes,omitempty"`
	SetIndex      *int              `json:"set_index,omitempty"`
	SetType       string            `json:"set_type,omitempty"`
	WeightLbs     *float64          `json:"weight_lbs,omitempty"`
	WeightKg      *float64          `json:"weight_kg,omitempty"`
	Distance      *float64          `json:"distance_miles,omitempty"`
	Duration      *float64          `json:"duration_seconds,omitempty"`
	RPE           *float64          `json:"rpe,omitempty"`
	RIR           *float64          `json:"rir,omitempty"`
	Equipment     string            `json:"equipment,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// WeightUnit selects the presentation unit for weights.
type WeightUnit int

const (
	Kg WeightUnit = iota
	Lbs
)

// KgPerLb converts pounds to kilograms.
const KgPerLb = 0.45359237

// MetersPerMile converts miles to meters.
const MetersPerMile = 1609.344

// Factor is the multiplier from stored kilograms to the unit.
func (u WeightUnit) Factor() float64 {
	if u == Lbs {
		return 2.20462
	}
	return 1
}

func (u WeightUnit) String() string {
	if u == Lbs {
		return "lbs"
	}
	return "kg"
}

// ParseWeightUnit accepts "kg" or "lbs" (also "lb"), case-insensitively.
// An empty string yields Kg.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kg", "kgs":
		return Kg, nil
	case "lb", "lbs":
		return Lbs, nil
	}
	return Kg, fmt.Errorf("unknown weight unit %q", s)
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
