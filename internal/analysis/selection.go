package analysis

import (
	"sort"
	"strings"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/models"
)

// Selection narrows a log before analysis. Zero fields do not filter.
type Selection struct {
	Exercises      []string
	ExcludeWarmups bool
	SetType        string
	SupersetID     string
	MinRPE, MaxRPE *float64
	MinWeight      *float64
	MaxWeight      *float64
	MinReps        *int
	MaxReps        *int
	NotesQuery     string
	BodyPart       string
	Kind           *catalog.Kind
	Difficulty     catalog.Difficulty
	Equipment      catalog.Equipment
}

// Select returns the entries matching sel, in input order. res resolves body
// parts and may be nil when BodyPart is empty.
func Select(entries []models.WorkoutEntry, sel Selection, res Resolver) []models.WorkoutEntry {
	var names map[string]struct{}
	if len(sel.Exercises) > 0 {
		names = make(map[string]struct{}, len(sel.Exercises))
		for _, n := range sel.Exercises {
			names[n] = struct{}{}
		}
	}
	out := make([]models.WorkoutEntry, 0, len(entries))
	for _, e := range entries {
		if names != nil {
			if _, ok := names[e.Exercise]; !ok {
				continue
			}
		}
		if sel.matches(e, res) {
			out = append(out, e)
		}
	}
	return out
}

func (sel Selection) matches(e models.WorkoutEntry, res Resolver) bool {
	if sel.ExcludeWarmups && strings.EqualFold(e.Raw.SetType, "warmup") {
		return false
	}
	if sel.SetType != "" && !strings.EqualFold(e.Raw.SetType, sel.SetType) {
		return false
	}
	if sel.SupersetID != "" && !strings.EqualFold(e.Raw.SupersetID, sel.SupersetID) {
		return false
	}
	if sel.MinRPE != nil && (e.Raw.RPE == nil || *e.Raw.RPE < *sel.MinRPE) {
		return false
	}
	if sel.MaxRPE != nil && (e.Raw.RPE == nil || *e.Raw.RPE > *sel.MaxRPE) {
		return false
	}
	if sel.MinWeight != nil && e.WeightOrZero() < *sel.MinWeight {
		return false
	}
	if sel.MaxWeight != nil && e.WeightOrZero() > *sel.MaxWeight {
		return false
	}
	if sel.MinReps != nil && e.RepsOrZero() < *sel.MinReps {
		return false
	}
	if sel.MaxReps != nil && e.RepsOrZero() > *sel.MaxReps {
		return false
	}
	if sel.NotesQuery != "" && !NotesMatch(sel.NotesQuery, e.Raw.ExerciseNotes) {
		return false
	}
	if sel.BodyPart != "" {
		if res == nil {
			return false
		}
		part, ok := res.BodyPartFor(e.Exercise)
		if !ok || !strings.EqualFold(part, sel.BodyPart) {
			return false
		}
	}
	if sel.Kind != nil {
		info, ok := catalog.InfoFor(e.Exercise)
		if !ok || info.Kind != *sel.Kind {
			return false
		}
	}
	if sel.Difficulty != catalog.NoDifficulty {
		if d, ok := catalog.DifficultyFor(e.Exercise); !ok || d != sel.Difficulty {
			return false
		}
	}
	if sel.Equipment != catalog.NoEquipment {
		if eq, ok := catalog.EquipmentFor(e.Exercise); !ok || eq != sel.Equipment {
			return false
		}
	}
	return true
}

// NotesMatch reports whether every whitespace-separated term of query occurs
// in notes, ignoring case. Terms prefixed with '-' must not occur.
func NotesMatch(query, notes string) bool {
	n := strings.ToLower(notes)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if neg, ok := strings.CutPrefix(term, "-"); ok && neg != "" {
			if strings.Contains(n, neg) {
				return false
			}
			continue
		}
		if !strings.Contains(n, term) {
			return false
		}
	}
	return true
}

// SetCounts is the set breakdown of one exercise.
type SetCounts struct {
	Workouts int `json:"workouts"`
	Working  int `json:"working"`
	Warmups  int `json:"warmups"`
}

// ExerciseSetCounts counts the sessions, working sets and warmup sets of
// exercise, matching the name case-insensitively. Sessions are identified by
// title and start time, falling back to the date.
func ExerciseSetCounts(entries []models.WorkoutEntry, exercise string) SetCounts {
	sessions := make(map[string]struct{})
	var c SetCounts
	for _, e := range entries {
		if !strings.EqualFold(e.Exercise, exercise) {
			continue
		}
		id := e.Raw.Title + "\x00" + e.Raw.StartTime
		if e.Raw.StartTime == "" {
			id = e.Raw.Title + "\x00" + e.Date
		}
		sessions[id] = struct{}{}
		if strings.EqualFold(e.Raw.SetType, "warmup") {
			c.Warmups++
		} else {
			c.Working++
		}
	}
	c.Workouts = len(sessions)
	return c
}

// UniqueSetTypes returns the distinct non-empty set types, sorted.
func UniqueSetTypes(entries []models.WorkoutEntry) []string {
	return uniqueRaw(entries, func(e models.WorkoutEntry) string { return e.Raw.SetType })
}

// UniqueSupersetIDs returns the distinct non-empty superset ids, sorted.
func UniqueSupersetIDs(entries []models.WorkoutEntry) []string {
	return uniqueRaw(entries, func(e models.WorkoutEntry) string { return e.Raw.SupersetID })
}

func uniqueRaw(entries []models.WorkoutEntry, field func(models.WorkoutEntry) string) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if v := field(e); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
