package level

// Range is the display span of a level used for progress bars.
type Range struct {
	Min float64
	Max float64
}

// progressRanges deliberately differ from SubjectThresholds at the lower
// edges (51, 101, ...), and PhD is capped at 500.
var progressRanges = map[Level]Range{
	MiddleSchool:  {0, 50},
	HighSchool:    {51, 100},
	Undergraduate: {101, 200},
	Masters:       {201, 300},
	PhD:           {301, 500},
}

// RangeOf returns the progress range for a level.
func RangeOf(l Level) Range {
	if r, ok := progressRanges[l]; ok {
		return r
	}
	return progressRanges[MiddleSchool]
}

// Progress returns how far points sit inside the range of lvl, as a
// percentage clamped to [0, 100]. Whether PhD should display as "max level"
// is the caller's decision.
func Progress(points float64, lvl Level) float64 {
	r := RangeOf(lvl)
	p := (points - r.Min) / (r.Max - r.Min) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
