package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Formula estimates a one-rep max from a weight and rep count.
type Formula int

const (
	// Epley: w * (1 + r/30).
	Epley Formula = iota
	// Brzycki: w * 36 / (37 - r). Undefined for r >= 37.
	Brzycki
	// Lombardi: w * r^0.10.
	Lombardi
	// Mayhew: 100w / (52.2 + 41.9 e^(-0.055 r)).
	Mayhew
	// OConner: w * (1 + r/40).
	OConner
	// Wathan: 100w / (48.8 + 53.8 e^(-0.075 r)).
	Wathan
	// Lander: w / (1.013 - 0.0267123 r). Undefined once the denominator
	// reaches zero.
	Lander
)

var formulaNames = [...]string{"epley", "brzycki", "lombardi", "mayhew", "oconner", "wathan", "lander"}

// Formulas lists every supported formula.
var Formulas = []Formula{Epley, Brzycki, Lombardi, Mayhew, OConner, Wathan, Lander}

func (f Formula) String() string {
	if int(f) >= 0 && int(f) < len(formulaNames) {
		return formulaNames[f]
	}
	return fmt.Sprintf("formula(%d)", int(f))
}

// ParseFormula matches a formula name case-insensitively. An empty name
// selects Epley.
func ParseFormula(s string) (Formula, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "'", "")
	if n == "" {
		return Epley, nil
	}
	for i, name := range formulaNames {
		if n == name {
			return Formula(i), nil
		}
	}
	return Epley, fmt.Errorf("unknown 1RM formula %q", s)
}

// Estimate returns the estimated one-rep max, or false when the formula is
// undefined for the inputs.
func (f Formula) Estimate(weight float64, reps int) (float64, bool) {
	r := float64(reps)
	switch f {
	case Epley:
		return weight * (1 + r/30), true
	case Brzycki:
		if reps >= 37 {
			return 0, false
		}
		return weight * 36 / (37 - r), true
	case Lombardi:
		return weight * math.Pow(r, 0.10), true
	case Mayhew:
		return 100 * weight / (52.2 + 41.9*math.Exp(-0.055*r)), true
	case OConner:
		return weight * (1 + r/40), true
	case Wathan:
		return 100 * weight / (48.8 + 53.8*math.Exp(-0.075*r)), true
	case Lander:
		denom := 1.013 - 0.0267123*r
		if denom <= 0 {
			return 0, false
		}
		return weight / denom, true
	}
	return 0, false
}
