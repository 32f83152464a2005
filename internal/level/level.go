package level

import (
	"fmt"
	"math"
)

// Level is an academic level. Levels are totally ordered: a higher value is a
// more advanced level.
type Level int

const (
	MiddleSchool Level = iota
	HighSchool
	Undergraduate
	Masters
	PhD
)

// All returns every level in ascending order.
func All() []Level {
	return []Level{MiddleSchool, HighSchool, Undergraduate, Masters, PhD}
}

// String returns the display name used in stored records and reports.
func (l Level) String() string {
	switch l {
	case MiddleSchool:
		return "Middle School"
	case HighSchool:
		return "High School"
	case Undergraduate:
		return "Undergraduate"
	case Masters:
		return "Master's"
	case PhD:
		return "PhD"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Parse maps a display name back to a Level.
func Parse(s string) (Level, error) {
	for _, l := range All() {
		if l.String() == s {
			return l, nil
		}
	}
	return MiddleSchool, fmt.Errorf("unknown education level %q", s)
}

// Next returns the level above l. PhD has no next level.
func (l Level) Next() (Level, bool) {
	if l >= PhD {
		return PhD, false
	}
	return l + 1, true
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Band is one step of a threshold table. Points up to and including Upper
// map to Level.
type Band struct {
	Level Level
	Upper float64
}

// Thresholds is an ascending table of half-open bands: (prev.Upper, Upper].
type Thresholds []Band

// SubjectThresholds grades a single subject's cumulative points.
var SubjectThresholds = Thresholds{
	{MiddleSchool, 50},
	{HighSchool, 100},
	{Undergraduate, 200},
	{Masters, 300},
	{PhD, math.Inf(1)},
}

// FusionThresholds grades a Knowledge Fusion total. The breakpoints are
// coarser than SubjectThresholds and are kept separate on purpose.
var FusionThresholds = Thresholds{
	{MiddleSchool, 100},
	{HighSchool, 200},
	{Undergraduate, 400},
	{Masters, 600},
	{PhD, math.Inf(1)},
}

// Level returns the level whose band contains points. Anything at or below
// the first boundary, including zero and negative totals, falls in the first
// band.
func (t Thresholds) Level(points float64) Level {
	for _, b := range t {
		if points <= b.Upper {
			return b.Level
		}
	}
	if len(t) == 0 {
		return MiddleSchool
	}
	// NaN compares false against every bound.
	return t[len(t)-1].Level
}

// ForPoints maps a per-subject point total to its level.
func ForPoints(points float64) Level {
	return SubjectThresholds.Level(points)
}

// ForFusionTotal maps a Knowledge Fusion total to its level.
func ForFusionTotal(total float64) Level {
	return FusionThresholds.Level(total)
}
