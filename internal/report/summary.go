// Package report assembles and renders the learner dashboard: proficiency
// per subject group, education levels and the Knowledge Fusion Score.
package report

import (
	"context"
	"fmt"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/fusion"
	"github.com/abhisek/aicred/internal/proficiency"
	"github.com/abhisek/aicred/internal/subject"
)

// ResultSource lists stored results.
type ResultSource interface {
	Results(ctx context.Context) ([]assessment.Result, error)
}

// Summary is everything the dashboard shows.
type Summary struct {
	Assessments int                 `json:"assessments"`
	TotalPoints float64             `json:"totalPoints"`
	Scores      []proficiency.Score `json:"proficiencyScores"`
	Fusion      fusion.Score        `json:"knowledgeFusion"`
}

// Builder computes summaries from stored results.
type Builder struct {
	results ResultSource
	tax     *subject.Taxonomy
	fusion  *fusion.Service
}

// NewBuilder creates a Builder. A nil taxonomy uses subject.Default().
func NewBuilder(results ResultSource, tax *subject.Taxonomy, fs *fusion.Service) *Builder {
	if tax == nil {
		tax = subject.Default()
	}
	return &Builder{results: results, tax: tax, fusion: fs}
}

// Build loads every result, aggregates proficiency and computes the KFS.
// Computing the KFS records the day-delta snapshot as a side effect.
func (b *Builder) Build(ctx context.Context) (*Summary, error) {
	results, err := b.results.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return b.BuildFrom(ctx, results)
}

// Seed summarizes stored results like Build but only records the KFS
// snapshot when the day has none yet. It reports whether it wrote one.
func (b *Builder) Seed(ctx context.Context) (*Summary, bool, error) {
	results, err := b.results.Results(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load results: %w", err)
	}
	scores := proficiency.Calculate(results, b.tax)
	kfs, seeded, err := b.fusion.Seed(ctx, scores)
	if err != nil {
		return nil, false, err
	}
	return &Summary{
		Assessments: len(results),
		TotalPoints: proficiency.Total(scores),
		Scores:      scores,
		Fusion:      kfs,
	}, seeded, nil
}

// BuildFrom summarizes the given results.
func (b *Builder) BuildFrom(ctx context.Context, results []assessment.Result) (*Summary, error) {
	scores := proficiency.Calculate(results, b.tax)
	kfs, err := b.fusion.Compute(ctx, scores)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Assessments: len(results),
		TotalPoints: proficiency.Total(scores),
		Scores:      scores,
		Fusion:      kfs,
	}, nil
}
