package alpha

import (
	"strconv"

	"github.com/meltforce/liftlog/internal/models"
)

// Source is written to RawRow.Source for Alpha Progression sets.
const Source = "alpha"

// Set types written to RawRow.SetType.
const (
	SetTypeWarmup = "warmup"
	SetTypeNormal = "normal"
)

// ToEntries flattens sessions into one entry per set, in export order.
// Warmup sets are only included when includeWarmups is set. Bodyweight-plus
// sets carry their added load as the weight.
func ToEntries(sessions []Session, includeWarmups bool) []models.WorkoutEntry {
	var out []models.WorkoutEntry
	for _, s := range sessions {
		date := s.Date.Format(models.DateLayout)
		start := s.Date.Format("2006-01-02 15:04")
		for _, ex := range s.Exercises {
			for i, set := range ex.Sets {
				if set.Warmup && !includeWarmups {
					continue
				}
				raw := models.RawRow{
					Source:    Source,
					Title:     s.Name,
					StartTime: start,
					SetIndex:  models.Int(i),
					SetType:   SetTypeNormal,
					WeightKg:  models.Float(set.WeightKg),
					RIR:       set.RIR,
					Equipment: ex.Equipment,
					Extra: map[string]string{
						"exercise_number": strconv.Itoa(ex.Number),
						"target_reps":     strconv.Itoa(ex.TargetReps),
					},
				}
				if set.Warmup {
					raw.SetType = SetTypeWarmup
				}
				if s.Duration != "" {
					raw.Extra["session_duration"] = s.Duration
				}
				if set.BodyweightPlus {
					raw.Extra["bodyweight_plus"] = "true"
				}
				out = append(out, models.WorkoutEntry{
					Date:     date,
					Exercise: ex.Name,
					Weight:   models.Float(set.WeightKg),
					Reps:     models.Int(set.Reps),
					Raw:      raw,
				})
			}
		}
	}
	return out
}
