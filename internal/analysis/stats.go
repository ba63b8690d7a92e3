package analysis

import (
	"sort"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// BasicStats summarizes the admitted sets of a window.
type BasicStats struct {
	TotalWorkouts      int     `json:"total_workouts"`
	AvgSetsPerWorkout  float64 `json:"avg_sets_per_workout"`
	AvgRepsPerSet      float64 `json:"avg_reps_per_set"`
	AvgDaysBetween     float64 `json:"avg_days_between"`
	MostCommonExercise string  `json:"most_common_exercise"`
}

// ExerciseStats is the per-exercise rollup.
type ExerciseStats struct {
	TotalSets   int      `json:"total_sets"`
	TotalReps   int      `json:"total_reps"`
	TotalVolume float64  `json:"total_volume"`
	BestEst1RM  *float64 `json:"best_est_1rm"`
}

// NamedExerciseStats pairs an exercise with its stats.
type NamedExerciseStats struct {
	Exercise string
	Stats    ExerciseStats
}

// ComputeStats summarizes the entries admitted by r. A window with no
// parseable dates yields the zero value.
func ComputeStats(entries []models.WorkoutEntry, r DateRange) BasicStats {
	setsPerDay := make(map[time.Time]int)
	exerciseSets := make(map[string]int)
	totalReps := 0

	for _, e := range entries {
		d, ok := r.Admit(e)
		if !ok {
			continue
		}
		setsPerDay[d]++
		exerciseSets[e.Exercise]++
		totalReps += e.RepsOrZero()
	}
	if len(setsPerDay) == 0 {
		return BasicStats{}
	}

	totalSets := 0
	dates := make([]time.Time, 0, len(setsPerDay))
	for d, n := range setsPerDay {
		totalSets += n
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var avgGap float64
	if len(dates) > 1 {
		var gap int64
		for i := 1; i < len(dates); i++ {
			gap += dayNumber(dates[i]) - dayNumber(dates[i-1])
		}
		avgGap = float64(gap) / float64(len(dates)-1)
	}

	return BasicStats{
		TotalWorkouts:      len(dates),
		AvgSetsPerWorkout:  float64(totalSets) / float64(len(dates)),
		AvgRepsPerSet:      float64(totalReps) / float64(totalSets),
		AvgDaysBetween:     avgGap,
		MostCommonExercise: mostCommon(exerciseSets),
	}
}

// mostCommon returns the name with the highest count. Ties go to the
// lexicographically smallest name.
func mostCommon(counts map[string]int) string {
	best, bestN := "", 0
	for name, n := range counts {
		if n > bestN || (n == bestN && name < best) {
			best, bestN = name, n
		}
	}
	return best
}

func dayNumber(d time.Time) int64 {
	return d.Unix() / 86400
}

// AggregateExerciseStats rolls admitted entries up per exercise. Missing
// weight or reps count as zero for the totals and exclude the set from the
// 1RM estimate.
func AggregateExerciseStats(entries []models.WorkoutEntry, f Formula, r DateRange) map[string]ExerciseStats {
	out := make(map[string]ExerciseStats)
	for _, e := range entries {
		if _, ok := r.Admit(e); !ok {
			continue
		}
		s := out[e.Exercise]
		s.TotalSets++
		s.TotalReps += e.RepsOrZero()
		s.TotalVolume += e.WeightOrZero() * float64(e.RepsOrZero())
		if e.HasLoad() {
			if est, ok := f.Estimate(*e.Weight, *e.Reps); ok {
				if s.BestEst1RM == nil || est > *s.BestEst1RM {
					s.BestEst1RM = models.Float(est)
				}
			}
		}
		out[e.Exercise] = s
	}
	return out
}

// SortedExerciseStats returns the map as a slice ordered by exercise name.
func SortedExerciseStats(m map[string]ExerciseStats) []NamedExerciseStats {
	out := make([]NamedExerciseStats, 0, len(m))
	for name, s := range m {
		out = append(out, NamedExerciseStats{Exercise: name, Stats: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exercise < out[j].Exercise })
	return out
}

// ExerciseRecord holds the personal bests of one exercise.
type ExerciseRecord struct {
	MaxWeight  *float64 `json:"max_weight"`
	MaxVolume  *float64 `json:"max_volume"`
	BestEst1RM *float64 `json:"best_est_1rm"`
}

// NamedRecord pairs an exercise with its records.
type NamedRecord struct {
	Exercise string         `json:"exercise"`
	Record   ExerciseRecord `json:"record"`
}

// PersonalRecords tracks running maxima per exercise, ordered by name.
func PersonalRecords(entries []models.WorkoutEntry, f Formula, r DateRange) []NamedRecord {
	recs := make(map[string]*ExerciseRecord)
	for _, e := range entries {
		if _, ok := r.Admit(e); !ok {
			continue
		}
		rec, ok := recs[e.Exercise]
		if !ok {
			rec = &ExerciseRecord{}
			recs[e.Exercise] = rec
		}
		w := e.WeightOrZero()
		vol := w * float64(e.RepsOrZero())
		raise(&rec.MaxWeight, w)
		raise(&rec.MaxVolume, vol)
		if e.HasLoad() {
			if est, ok := f.Estimate(*e.Weight, *e.Reps); ok {
				raise(&rec.BestEst1RM, est)
			}
		}
	}

	out := make([]NamedRecord, 0, len(recs))
	for name, rec := range recs {
		out = append(out, NamedRecord{Exercise: name, Record: *rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exercise < out[j].Exercise })
	return out
}

func raise(dst **float64, v float64) {
	if *dst == nil || v > **dst {
		*dst = models.Float(v)
	}
}

// WeeklySummary is one ISO week of training.
type WeeklySummary struct {
	Year        int     `json:"year"`
	Week        int     `json:"week"`
	TotalVolume float64 `json:"total_volume"`
	TotalSets   int     `json:"total_sets"`
	TotalReps   int     `json:"total_reps"`
}

// AggregateWeeklySummary buckets admitted entries by ISO week, oldest first.
func AggregateWeeklySummary(entries []models.WorkoutEntry, r DateRange) []WeeklySummary {
	type key struct{ year, week int }
	buckets := make(map[key]*WeeklySummary)
	for _, e := range entries {
		d, ok := r.Admit(e)
		if !ok {
			continue
		}
		y, w := d.ISOWeek()
		k := key{y, w}
		b, ok := buckets[k]
		if !ok {
			b = &WeeklySummary{Year: y, Week: w}
			buckets[k] = b
		}
		b.TotalSets++
		b.TotalReps += e.RepsOrZero()
		b.TotalVolume += e.WeightOrZero() * float64(e.RepsOrZero())
	}

	out := make([]WeeklySummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

// UniqueExercises returns the distinct admitted exercise names, sorted.
func UniqueExercises(entries []models.WorkoutEntry, r DateRange) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if _, ok := r.Admit(e); ok {
			seen[e.Exercise] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
