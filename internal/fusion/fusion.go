// Package fusion computes the Knowledge Fusion Score, a composite that
// rewards breadth across at least two qualifying subjects.
package fusion

import (
	"sort"
	"time"

	"github.com/abhisek/aicred/internal/level"
	"github.com/abhisek/aicred/internal/proficiency"
)

const (
	// EligibleScore is the minimum subject score counted toward the KFS.
	EligibleScore = 100.0

	// MinSubjects is the number of eligible subjects required for a KFS.
	MinSubjects = 2

	maxSubjects = 3
)

// Subject is one ranked component of the composite.
type Subject struct {
	Subject string      `json:"subject"`
	Points  float64     `json:"points"`
	Level   level.Level `json:"level"`
}

// DailyProgress compares the total against the last snapshot from an
// earlier calendar day.
type DailyProgress struct {
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Change   float64 `json:"change"`
}

// Score is the Knowledge Fusion Score.
type Score struct {
	Total         float64        `json:"total"`
	Level         level.Level    `json:"level"`
	Major         *Subject       `json:"major,omitempty"`
	MinorA        *Subject       `json:"minorA,omitempty"`
	MinorB        *Subject       `json:"minorB,omitempty"`
	IsEligible    bool           `json:"isEligible"`
	DailyProgress *DailyProgress `json:"dailyProgress,omitempty"`
}

// Snapshot is the persisted total used for day-over-day deltas.
type Snapshot struct {
	Total     float64   `json:"previousKFSTotal"`
	UpdatedAt time.Time `json:"lastKFSUpdate"`
}

// Calculate computes the KFS from proficiency scores. prev is the last
// persisted snapshot, or nil. The returned snapshot is what the caller must
// persist; it is nil when the scores are not eligible and the stored
// snapshot should be left untouched.
func Calculate(scores []proficiency.Score, prev *Snapshot, now time.Time) (Score, *Snapshot) {
	eligible := make([]proficiency.Score, 0, len(scores))
	for _, s := range scores {
		if s.Score >= EligibleScore {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) < MinSubjects {
		return Score{Level: level.MiddleSchool}, nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})
	if len(eligible) > maxSubjects {
		eligible = eligible[:maxSubjects]
	}

	kfs := Score{IsEligible: true}
	ranks := []**Subject{&kfs.Major, &kfs.MinorA, &kfs.MinorB}
	for i, s := range eligible {
		*ranks[i] = &Subject{Subject: s.SubjectGroup, Points: s.Score, Level: s.Level}
		kfs.Total += s.Score
	}
	kfs.Level = level.ForFusionTotal(kfs.Total)

	if prev != nil && !sameDay(prev.UpdatedAt, now) {
		kfs.DailyProgress = &DailyProgress{
			Previous: prev.Total,
			Current:  kfs.Total,
			Change:   kfs.Total - prev.Total,
		}
	}

	return kfs, &Snapshot{Total: kfs.Total, UpdatedAt: now}
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
