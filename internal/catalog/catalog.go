// Package catalog holds the built-in exercise knowledge base: for each known
// exercise name, the primary and secondary muscles it trains, its movement
// kind, and where known its difficulty and equipment.
package catalog

import "sort"

// Kind classifies an exercise by muscle engagement.
type Kind int

const (
	Compound Kind = iota
	Isolation
	Isometric
	Cardio
	Plyometric
)

var kindNames = [...]string{"Compound", "Isolation", "Isometric", "Cardio", "Plyometric"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Difficulty is the skill level an exercise demands. NoDifficulty means
// the catalog does not say.
type Difficulty int

const (
	NoDifficulty Difficulty = iota
	Beginner
	Intermediate
	Advanced
)

var difficultyNames = [...]string{"", "Beginner", "Intermediate", "Advanced"}

func (d Difficulty) String() string {
	if int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Equipment is the main implement used. NoEquipment means unknown.
type Equipment int

const (
	NoEquipment Equipment = iota
	Barbell
	Dumbbell
	Machine
	Cable
	Bodyweight
	Other
)

var equipmentNames = [...]string{"", "Barbell", "Dumbbell", "Machine", "Cable", "Bodyweight", "Other"}

func (e Equipment) String() string {
	if int(e) < len(equipmentNames) {
		return equipmentNames[e]
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (e Equipment) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// ExerciseInfo is one catalog row. Secondary is shared and must not be modified.
type ExerciseInfo struct {
	Primary    string     `json:"primary"`
	Secondary  []string   `json:"secondary"`
	Kind       Kind       `json:"kind"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Equipment  Equipment  `json:"equipment,omitempty"`
}

type row struct {
	name       string
	primary    string
	secondary  []string
	kind       Kind
	difficulty Difficulty
	equipment  Equipment
}

var index = func() map[string]ExerciseInfo {
	m := make(map[string]ExerciseInfo, len(exercises))
	for _, r := range exercises {
		m[r.name] = ExerciseInfo{
			Primary:    r.primary,
			Secondary:  r.secondary,
			Kind:       r.kind,
			Difficulty: r.difficulty,
			Equipment:  r.equipment,
		}
	}
	return m
}()

// InfoFor returns the catalog row for name.
func InfoFor(name string) (ExerciseInfo, bool) {
	info, ok := index[name]
	return info, ok
}

// PrimaryFor returns the primary muscle for name.
func PrimaryFor(name string) (string, bool) {
	info, ok := index[name]
	if !ok {
		return "", false
	}
	return info.Primary, true
}

// DifficultyFor returns the difficulty of name, if the catalog records one.
func DifficultyFor(name string) (Difficulty, bool) {
	info, ok := index[name]
	if !ok || info.Difficulty == NoDifficulty {
		return NoDifficulty, false
	}
	return info.Difficulty, true
}

// EquipmentFor returns the equipment of name, if the catalog records one.
func EquipmentFor(name string) (Equipment, bool) {
	info, ok := index[name]
	if !ok || info.Equipment == NoEquipment {
		return NoEquipment, false
	}
	return info.Equipment, true
}

// Names returns every catalog exercise name in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(index))
	for n := range index {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PrimaryMuscles returns the distinct primary muscles in alphabetical order.
func PrimaryMuscles() []string {
	seen := make(map[string]struct{})
	for _, info := range index {
		seen[info.Primary] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of catalog rows.
func Len() int { return len(index) }
