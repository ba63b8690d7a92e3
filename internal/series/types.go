// Package series turns workout entries into ordered point sequences for
// plotting: weight, volume and estimated 1RM over time, per-muscle volume,
// sets per day and rep histograms, plus moving-average smoothing.
package series

import (
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/models"
)

// Point is one (x, y) sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a named series sorted ascending by X.
type Line struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Record is a point that set a new running maximum, with the set behind it.
type Record struct {
	Point  Point   `json:"point"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// LineWithMarker is a line plus its maximum and record-setting points.
// Smoothed lines carry no markers.
type LineWithMarker struct {
	Line
	MaxPoint *Point   `json:"max_point,omitempty"`
	Label    string   `json:"label,omitempty"`
	Records  []Record `json:"records,omitempty"`
}

// RecordPoints returns the points of the record-setting sets.
func (l LineWithMarker) RecordPoints() []Point {
	out := make([]Point, len(l.Records))
	for i, r := range l.Records {
		out[i] = r.Point
	}
	return out
}

// XAxis selects the x value of a point.
type XAxis int

const (
	// Date plots days since 0001-01-01 (which is day 1).
	Date XAxis = iota
	// WorkoutIndex plots the 0-based position within the series.
	WorkoutIndex
)

// YAxis selects the y value of a point.
type YAxis int

const (
	Weight YAxis = iota
	Volume
)

// Smoothing selects the moving average applied to smoothed lines.
type Smoothing int

const (
	SimpleMA Smoothing = iota
	EMA
)

// Aggregation selects the time bucket for volume series.
type Aggregation int

const (
	Daily Aggregation = iota
	Weekly
	Monthly
)

// Options are the shared series parameters. Window <= 1 disables smoothing.
type Options struct {
	Range       analysis.DateRange
	XAxis       XAxis
	YAxis       YAxis
	Unit        models.WeightUnit
	Window      int
	Smoothing   Smoothing
	Aggregation Aggregation
}

func (o Options) factor() float64 { return o.Unit.Factor() }

func (o Options) x(d time.Time, idx int) float64 {
	if o.XAxis == WorkoutIndex {
		return float64(idx)
	}
	return DaysFromCE(d)
}

// smoothed returns the MA line for points, or false when smoothing is off
// or there is too little data.
func (o Options) smoothed(name string, points []Point, method Smoothing) (Line, bool) {
	if o.Window <= 1 || len(points) <= 1 {
		return Line{}, false
	}
	return Line{Name: name + " MA", Points: Smooth(points, o.Window, method)}, true
}

// epochOffset is the day number of 1970-01-01 counted from 0001-01-01 = 1.
const epochOffset = 719163

// DaysFromCE returns the day number of d's calendar date, with 0001-01-01
// being day 1.
func DaysFromCE(d time.Time) float64 {
	y, m, day := d.Date()
	utc := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return float64(floorDiv(utc.Unix(), 86400) + epochOffset)
}

// DateFromDays is the inverse of DaysFromCE.
func DateFromDays(days float64) time.Time {
	return time.Unix((int64(days)-epochOffset)*86400, 0).UTC()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// bucketStart maps d to the first day of its aggregation bucket: the Monday
// of its ISO week or the first of its month.
func bucketStart(d time.Time, agg Aggregation) time.Time {
	switch agg {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

// ParseXAxis accepts "date" or "index" (also "workout_index").
func ParseXAxis(s string) (XAxis, error) {
	switch strings.ToLower(s) {
	case "", "date":
		return Date, nil
	case "index", "workout_index", "workoutindex":
		return WorkoutIndex, nil
	}
	return Date, fmt.Errorf("unknown x axis %q", s)
}

// ParseYAxis accepts "weight" or "volume".
func ParseYAxis(s string) (YAxis, error) {
	switch strings.ToLower(s) {
	case "", "weight":
		return Weight, nil
	case "volume":
		return Volume, nil
	}
	return Weight, fmt.Errorf("unknown y axis %q", s)
}

// ParseSmoothing accepts "sma" or "ema".
func ParseSmoothing(s string) (Smoothing, error) {
	switch strings.ToLower(s) {
	case "", "sma", "simple":
		return SimpleMA, nil
	case "ema":
		return EMA, nil
	}
	return SimpleMA, fmt.Errorf("unknown smoothing %q", s)
}

// ParseAggregation accepts "daily", "weekly" or "monthly".
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(s) {
	case "", "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return Daily, fmt.Errorf("unknown aggregation %q", s)
}
