package contentgen

import (
	"context"

	"github.com/abhisek/aicred/internal/assessment"
)

// Generator turns learning material into an assessment.
type Generator interface {
	// Generate produces questions, a topic and a normalized learning outcome
	// for the given text. Input outside the accepted length range yields an
	// *InputError; every other failure is a *GenerationError.
	Generate(ctx context.Context, text string) (*assessment.Generated, error)
}
