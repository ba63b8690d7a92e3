package analysis

import (
	"slices"
	"sort"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/models"
)

// Resolver maps an exercise name to its primary muscle.
// *mapping.Store implements it.
type Resolver interface {
	BodyPartFor(name string) (string, bool)
}

var _ Resolver = (*mapping.Store)(nil)

// MuscleCount is the number of admitted sets that trained a muscle.
type MuscleCount struct {
	Muscle string `json:"muscle"`
	Sets   int    `json:"sets"`
}

// BodyPartDistribution counts admitted sets per resolved primary muscle,
// ordered by muscle name. Unresolved exercises are skipped.
func BodyPartDistribution(entries []models.WorkoutEntry, res Resolver, r DateRange) []MuscleCount {
	counts := make(map[string]int)
	for _, e := range entries {
		if _, ok := r.Admit(e); !ok {
			continue
		}
		if part, ok := res.BodyPartFor(e.Exercise); ok {
			counts[part]++
		}
	}
	out := make([]MuscleCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MuscleCount{Muscle: m, Sets: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Muscle < out[j].Muscle })
	return out
}

// UpdateMappingsFromWorkouts copies catalog muscles into the overlay for
// every exercise in entries whose overlay row is missing or disagrees with
// the catalog. Categories are preserved. It returns the number of rows
// written; the caller decides whether to Save.
func UpdateMappingsFromWorkouts(entries []models.WorkoutEntry, store *mapping.Store) int {
	seen := make(map[string]struct{})
	updated := 0
	for _, e := range entries {
		if _, dup := seen[e.Exercise]; dup {
			continue
		}
		seen[e.Exercise] = struct{}{}

		info, ok := catalog.InfoFor(e.Exercise)
		if !ok {
			continue
		}
		cur, exists := store.Get(e.Exercise)
		if exists && cur.Primary == info.Primary && slices.Equal(cur.Secondary, info.Secondary) {
			continue
		}
		store.Set(e.Exercise, mapping.MuscleMapping{
			Primary:   info.Primary,
			Secondary: info.Secondary,
			Category:  cur.Category,
		})
		updated++
	}
	return updated
}
