package contentgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/level"
)

// creditRate is the number of AiCE points earned per hour of study.
var creditRate = map[level.Level]float64{
	level.MiddleSchool:  2,
	level.HighSchool:    4,
	level.Undergraduate: 6,
	level.Masters:       8,
	level.PhD:           10,
}

// CreditRate returns the AiCE points per learning hour at l.
func CreditRate(l level.Level) float64 {
	return creditRate[l]
}

// parseAcademicLevel accepts the display names plus the usual spelling
// variants models produce ("Masters", "high school").
func parseAcademicLevel(s string) (level.Level, error) {
	norm := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		v = strings.ReplaceAll(v, "'", "")
		v = strings.ReplaceAll(v, "’", "")
		return strings.Join(strings.Fields(v), " ")
	}
	want := norm(s)
	for _, l := range level.All() {
		if norm(l.String()) == want {
			return l, nil
		}
	}
	return level.MiddleSchool, fmt.Errorf("unknown academic level %q", s)
}

// NormalizeOutcome overwrites the model's arithmetic: CPD points equal the
// learning time and AiCE points are learning time times the level rate.
// The academic level is rewritten to its canonical display name.
func NormalizeOutcome(o assessment.LearningOutcome) (assessment.LearningOutcome, error) {
	l, err := parseAcademicLevel(o.AcademicLevel)
	if err != nil {
		return o, err
	}
	if o.LearningTime < 0 {
		return o, fmt.Errorf("negative learning time %v", o.LearningTime)
	}
	o.AcademicLevel = l.String()
	o.CPDPoints = o.LearningTime
	o.KIUAllocation = o.LearningTime * CreditRate(l)
	return o, nil
}
