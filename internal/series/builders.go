package series

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/analysis"
	"github.com/meltforce/liftlog/internal/models"
)

type admitted struct {
	date  time.Time
	entry models.WorkoutEntry
}

// forExercise returns the admitted entries of one exercise sorted by date.
// Entries sharing a date keep their input order.
func forExercise(entries []models.WorkoutEntry, exercise string, r analysis.DateRange) []admitted {
	var out []admitted
	for _, e := range entries {
		if e.Exercise != exercise {
			continue
		}
		d, ok := r.Admit(e)
		if !ok {
			continue
		}
		out = append(out, admitted{date: d, entry: e})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}

// WeightOverTime builds one line per requested exercise, in request order,
// each optionally followed by its smoothed line. Record points are only
// tracked when the y axis is Weight.
func WeightOverTime(entries []models.WorkoutEntry, exercises []string, o Options) []LineWithMarker {
	var lines []LineWithMarker
	f := o.factor()
	for _, ex := range exercises {
		line := LineWithMarker{Line: Line{Name: ex, Points: []Point{}}, Label: "Max Weight"}
		if o.YAxis == Volume {
			line.Label = "Max Volume"
		}
		best := 0.0
		for i, a := range forExercise(entries, ex, o.Range) {
			w := a.entry.WeightOrZero() * f
			reps := a.entry.RepsOrZero()
			y := w
			if o.YAxis == Volume {
				y = w * float64(reps)
			}
			p := Point{X: o.x(a.date, i), Y: y}
			if line.MaxPoint == nil || y > best {
				best = y
				mp := p
				line.MaxPoint = &mp
				if o.YAxis == Weight {
					line.Records = append(line.Records, Record{Point: p, Date: a.entry.Date, Weight: w, Reps: reps})
				}
			}
			line.Points = append(line.Points, p)
		}
		lines = append(lines, line)
		if sm, ok := o.smoothed(ex, line.Points, o.Smoothing); ok {
			lines = append(lines, LineWithMarker{Line: sm})
		}
	}
	return lines
}

// Estimated1RM builds one estimated one-rep-max line per requested exercise.
// Sets the formula cannot estimate, or without weight and reps, are left out
// and do not advance the workout index.
func Estimated1RM(entries []models.WorkoutEntry, exercises []string, formula analysis.Formula, o Options) []LineWithMarker {
	var lines []LineWithMarker
	f := o.factor()
	for _, ex := range exercises {
		line := LineWithMarker{Line: Line{Name: ex, Points: []Point{}}, Label: "Max 1RM"}
		best := 0.0
		idx := 0
		for _, a := range forExercise(entries, ex, o.Range) {
			if !a.entry.HasLoad() {
				continue
			}
			w := *a.entry.Weight * f
			est, ok := formula.Estimate(w, *a.entry.Reps)
			if !ok {
				continue
			}
			p := Point{X: o.x(a.date, idx), Y: est}
			if line.MaxPoint == nil || est > best {
				best = est
				mp := p
				line.MaxPoint = &mp
				line.Records = append(line.Records, Record{Point: p, Date: a.entry.Date, Weight: w, Reps: *a.entry.Reps})
			}
			line.Points = append(line.Points, p)
			idx++
		}
		lines = append(lines, line)
		if sm, ok := o.smoothed(ex, line.Points, o.Smoothing); ok {
			lines = append(lines, LineWithMarker{Line: sm})
		}
	}
	return lines
}

// Bar is one day of the sets-per-day chart.
type Bar struct {
	Index int    `json:"index"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SetsPerDay counts admitted sets per date, restricted to exercise when it
// is non-empty, oldest first.
func SetsPerDay(entries []models.WorkoutEntry, exercise string, r analysis.DateRange) []Bar {
	counts := make(map[time.Time]int)
	for _, e := range entries {
		if exercise != "" && e.Exercise != exercise {
			continue
		}
		if d, ok := r.Admit(e); ok {
			counts[d]++
		}
	}
	dates := sortedKeys(counts)
	bars := make([]Bar, len(dates))
	for i, d := range dates {
		bars[i] = Bar{Index: i, Date: d.Format(models.DateLayout), Count: counts[d]}
	}
	return bars
}

type load struct {
	volume float64
	weight float64
}

func (l load) y(axis YAxis) float64 {
	if axis == Volume {
		return l.volume
	}
	return l.weight
}

func loadByBucket(entries []models.WorkoutEntry, o Options) map[time.Time]load {
	f := o.factor()
	m := make(map[time.Time]load)
	for _, e := range entries {
		d, ok := o.Range.Admit(e)
		if !ok {
			continue
		}
		k := bucketStart(d, o.Aggregation)
		l := m[k]
		w := e.WeightOrZero() * f
		l.volume += w * float64(e.RepsOrZero())
		l.weight += w
		m[k] = l
	}
	return m
}

// AggregatedVolume sums admitted volume (or weight, per the y axis) into
// daily, ISO-week or calendar-month buckets. On a date axis each bucket sits
// at its first day.
func AggregatedVolume(entries []models.WorkoutEntry, o Options) []Point {
	m := loadByBucket(entries, o)
	keys := sortedKeys(m)
	points := make([]Point, len(keys))
	for i, k := range keys {
		points[i] = Point{X: o.x(k, i), Y: m[k].y(o.YAxis)}
	}
	return points
}

// TrainingVolume returns the per-date totals as a "Volume" line, followed
// by its smoothed line when enabled.
func TrainingVolume(entries []models.WorkoutEntry, o Options) []Line {
	daily := o
	daily.Aggregation = Daily
	points := AggregatedVolume(entries, daily)
	lines := []Line{{Name: "Volume", Points: points}}
	if sm, ok := o.smoothed("Volume", points, o.Smoothing); ok {
		lines = append(lines, sm)
	}
	return lines
}

// ExerciseVolume is the aggregated volume of a single exercise, with an
// optional simple moving average.
func ExerciseVolume(entries []models.WorkoutEntry, exercise string, o Options) []Line {
	var only []models.WorkoutEntry
	for _, e := range entries {
		if e.Exercise == exercise {
			only = append(only, e)
		}
	}
	vo := o
	vo.YAxis = Volume
	points := AggregatedVolume(only, vo)
	lines := []Line{{Name: exercise, Points: points}}
	if sm, ok := o.smoothed(exercise, points, SimpleMA); ok {
		lines = append(lines, sm)
	}
	return lines
}

func volumeByMuscle(entries []models.WorkoutEntry, res analysis.Resolver, o Options) map[string]map[time.Time]float64 {
	f := o.factor()
	m := make(map[string]map[time.Time]float64)
	for _, e := range entries {
		part, ok := res.BodyPartFor(e.Exercise)
		if !ok {
			continue
		}
		d, ok := o.Range.Admit(e)
		if !ok {
			continue
		}
		byDate, ok := m[part]
		if !ok {
			byDate = make(map[time.Time]float64)
			m[part] = byDate
		}
		byDate[bucketStart(d, o.Aggregation)] += e.WeightOrZero() * f * float64(e.RepsOrZero())
	}
	return m
}

// BodyPartVolume returns one volume line per resolved primary muscle, in
// muscle name order, each followed by its simple moving average when
// enabled. Each muscle has its own workout index.
func BodyPartVolume(entries []models.WorkoutEntry, res analysis.Resolver, o Options) []Line {
	m := volumeByMuscle(entries, res, o)
	parts := make([]string, 0, len(m))
	for p := range m {
		parts = append(parts, p)
	}
	sort.Strings(parts)

	var lines []Line
	for _, part := range parts {
		byDate := m[part]
		dates := sortedKeys(byDate)
		points := make([]Point, len(dates))
		for i, d := range dates {
			points[i] = Point{X: o.x(d, i), Y: byDate[d]}
		}
		lines = append(lines, Line{Name: part, Points: points})
		if sm, ok := o.smoothed(part, points, SimpleMA); ok {
			lines = append(lines, sm)
		}
	}
	return lines
}

// BodyPartVolumeTrend fits a trend line to each muscle's aggregated volume on
// a date axis. Muscles with fewer than two buckets are omitted.
func BodyPartVolumeTrend(entries []models.WorkoutEntry, res analysis.Resolver, o Options) []Line {
	var lines []Line
	for _, l := range BodyPartVolume(entries, res, Options{Range: o.Range, Unit: o.Unit, Aggregation: o.Aggregation}) {
		if trend := TrendLine(l.Points); len(trend) == 2 {
			lines = append(lines, Line{Name: l.Name + " Trend", Points: trend})
		}
	}
	return lines
}

// RepBin is the number of sets performed with a rep count.
type RepBin struct {
	Reps  int `json:"reps"`
	Count int `json:"count"`
}

// RepHistogram counts admitted sets per rep count for the given exercises
// (all when empty), ascending by reps. Sets without reps are skipped.
func RepHistogram(entries []models.WorkoutEntry, exercises []string, r analysis.DateRange) []RepBin {
	want := make(map[string]struct{}, len(exercises))
	for _, ex := range exercises {
		want[ex] = struct{}{}
	}
	counts := make(map[int]int)
	for _, e := range entries {
		if len(want) > 0 {
			if _, ok := want[e.Exercise]; !ok {
				continue
			}
		}
		if e.Reps == nil {
			continue
		}
		if _, ok := r.Admit(e); ok {
			counts[*e.Reps]++
		}
	}
	out := make([]RepBin, 0, len(counts))
	for reps, n := range counts {
		out = append(out, RepBin{Reps: reps, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reps < out[j].Reps })
	return out
}

// AverageRPE averages the recorded RPE per date. Entries without RPE are
// ignored. The raw line carries its maximum.
func AverageRPE(entries []models.WorkoutEntry, o Options) []LineWithMarker {
	type acc struct {
		sum float64
		n   int
	}
	m := make(map[time.Time]acc)
	for _, e := range entries {
		if e.Raw.RPE == nil {
			continue
		}
		d, ok := o.Range.Admit(e)
		if !ok {
			continue
		}
		a := m[d]
		a.sum += *e.Raw.RPE
		a.n++
		m[d] = a
	}
	dates := sortedKeys(m)
	line := LineWithMarker{Line: Line{Name: "Avg RPE", Points: make([]Point, len(dates))}, Label: "Max Avg RPE"}
	for i, d := range dates {
		p := Point{X: o.x(d, i), Y: m[d].sum / float64(m[d].n)}
		line.Points[i] = p
		if line.MaxPoint == nil || p.Y > line.MaxPoint.Y {
			mp := p
			line.MaxPoint = &mp
		}
	}
	lines := []LineWithMarker{line}
	if sm, ok := o.smoothed("Avg RPE", line.Points, o.Smoothing); ok {
		lines = append(lines, LineWithMarker{Line: sm})
	}
	return lines
}

func sortedKeys[V any](m map[time.Time]V) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// HistogramMetric selects the value binned by Histogram.
type HistogramMetric int

const (
	HistWeight HistogramMetric = iota
	HistVolume
	HistRPE
	HistReps
)

func (m HistogramMetric) String() string {
	switch m {
	case HistVolume:
		return "Volume"
	case HistRPE:
		return "RPE"
	case HistReps:
		return "Reps"
	}
	return "Weight"
}

// ParseHistogramMetric accepts "weight", "volume", "rpe" or "reps".
func ParseHistogramMetric(s string) (HistogramMetric, error) {
	for _, m := range []HistogramMetric{HistWeight, HistVolume, HistRPE, HistReps} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	if s == "" {
		return HistWeight, nil
	}
	return HistWeight, fmt.Errorf("unknown histogram metric %q", s)
}

// HistogramBin counts the values falling in [Center-Width/2, Center+Width/2).
type HistogramBin struct {
	Center float64 `json:"center"`
	Width  float64 `json:"width"`
	Count  int     `json:"count"`
}

func (m HistogramMetric) value(e models.WorkoutEntry, factor float64) (float64, bool) {
	switch m {
	case HistRPE:
		if e.Raw.RPE == nil {
			return 0, false
		}
		return *e.Raw.RPE, true
	case HistReps:
		if e.Reps == nil {
			return 0, false
		}
		return float64(*e.Reps), true
	}
	if e.Weight == nil {
		return 0, false
	}
	v := *e.Weight * factor
	if m == HistVolume {
		if e.Reps == nil {
			return 0, false
		}
		v *= float64(*e.Reps)
	}
	return v, true
}

// Histogram bins the metric of every admitted entry into buckets of width
// bin, ascending. Weight and volume are in the options' unit. A bin <= 0
// yields nothing; entries without the metric are skipped.
func Histogram(entries []models.WorkoutEntry, metric HistogramMetric, bin float64, o Options) []HistogramBin {
	if !(bin > 0) || math.IsInf(bin, 0) {
		return nil
	}
	counts := make(map[int64]int)
	for _, e := range entries {
		if _, ok := o.Range.Admit(e); !ok {
			continue
		}
		v, ok := metric.value(e, o.factor())
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		counts[int64(math.Floor(v/bin))]++
	}
	idx := make([]int64, 0, len(counts))
	for i := range counts {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] < idx[b] })
	out := make([]HistogramBin, len(idx))
	for i, k := range idx {
		out[i] = HistogramBin{Center: float64(k)*bin + bin/2, Width: bin, Count: counts[k]}
	}
	return out
}

// Scatter bounds. Larger values are clamped onto the edge of the plot.
const (
	MaxScatterWeight = 10_000.0
	MaxScatterReps   = 1_000.0
)

// WeightRepsScatter returns one (weight, reps) point per admitted set of the
// given exercises (all when empty), in input order. Only sets with a finite,
// positive weight and positive reps are kept.
func WeightRepsScatter(entries []models.WorkoutEntry, exercises []string, o Options) []Point {
	want := make(map[string]struct{}, len(exercises))
	for _, ex := range exercises {
		want[ex] = struct{}{}
	}
	var out []Point
	for _, e := range entries {
		if len(want) > 0 {
			if _, ok := want[e.Exercise]; !ok {
				continue
			}
		}
		if e.Weight == nil || e.Reps == nil {
			continue
		}
		if _, ok := o.Range.Admit(e); !ok {
			continue
		}
		w, r := *e.Weight*o.factor(), float64(*e.Reps)
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 || r <= 0 {
			continue
		}
		out = append(out, Point{X: math.Min(w, MaxScatterWeight), Y: math.Min(r, MaxScatterReps)})
	}
	return out
}
