// Package proficiency groups finalized assessment results by subject and
// sums their AiCE points into per-subject scores.
package proficiency

import (
	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/level"
	"github.com/abhisek/aicred/internal/subject"
)

// Score is the aggregate for one subject group.
type Score struct {
	SubjectGroup string              `json:"subjectGroup"`
	Score        float64             `json:"score"`
	Level        level.Level         `json:"level"`
	Assessments  []assessment.Result `json:"assessments"`
}

// Calculate partitions results by subject and sums kiuAllocation per group.
// Groups are returned in order of first appearance and each group keeps its
// results in input order. A nil taxonomy uses subject.Default().
func Calculate(results []assessment.Result, tax *subject.Taxonomy) []Score {
	if tax == nil {
		tax = subject.Default()
	}

	index := make(map[string]int)
	var scores []Score
	for _, r := range results {
		label := tax.Classify(r.Topic)
		i, ok := index[label]
		if !ok {
			i = len(scores)
			index[label] = i
			scores = append(scores, Score{SubjectGroup: label})
		}
		scores[i].Score += r.LearningOutcome.KIUAllocation
		scores[i].Assessments = append(scores[i].Assessments, r)
	}

	for i := range scores {
		scores[i].Level = level.ForPoints(scores[i].Score)
	}
	return scores
}

// Total sums the score of every group.
func Total(scores []Score) float64 {
	var total float64
	for _, s := range scores {
		total += s.Score
	}
	return total
}

// Find returns the score for a subject group.
func Find(scores []Score, group string) (Score, bool) {
	for _, s := range scores {
		if s.SubjectGroup == group {
			return s, true
		}
	}
	return Score{}, false
}
