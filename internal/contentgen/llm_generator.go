package contentgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/llm"
)

// Purposes recorded with each LLM request event.
const (
	PurposeQuestions = "assessment-questions"
	PurposeOutcome   = "learning-outcome"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionsOutput is the raw questions response before validation.
type questionsOutput struct {
	Questions []assessment.Question `json:"questions"`
	Topic     string                `json:"topic"`
}

// CheckInput enforces the accepted source length in characters.
func (g *LLMGenerator) CheckInput(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < g.config.MinInputRunes || (g.config.MaxInputRunes > 0 && n > g.config.MaxInputRunes) {
		return &InputError{Length: n, Min: g.config.MinInputRunes, Max: g.config.MaxInputRunes}
	}
	return nil
}

// Generate issues the questions and learning-outcome requests concurrently.
// Both must succeed.
func (g *LLMGenerator) Generate(ctx context.Context, text string) (*assessment.Generated, error) {
	if err := g.CheckInput(text); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcomeResult struct {
		outcome assessment.LearningOutcome
		err     error
	}
	outcomeCh := make(chan outcomeResult, 1)
	go func() {
		o, err := g.generateOutcome(ctx, text)
		if err != nil {
			cancel()
		}
		outcomeCh <- outcomeResult{o, err}
	}()

	qs, qErr := g.generateQuestions(ctx, text)
	if qErr != nil {
		cancel()
	}
	res := <-outcomeCh

	// Report the real failure, not the cancellation it caused.
	switch {
	case qErr != nil && res.err != nil && errors.Is(qErr, context.Canceled):
		return nil, res.err
	case qErr != nil:
		return nil, qErr
	case res.err != nil:
		return nil, res.err
	}

	return &assessment.Generated{
		Questions:       qs.Questions,
		Topic:           qs.Topic,
		LearningOutcome: res.outcome,
	}, nil
}

func (g *LLMGenerator) generateQuestions(ctx context.Context, text string) (*questionsOutput, error) {
	ctx = llm.WithPurpose(ctx, PurposeQuestions)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      questionsSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildQuestionsMessage(text, g.config)}},
		Schema:      QuestionsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, &GenerationError{Stage: "questions", Err: err}
	}

	var out questionsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &GenerationError{Stage: "questions", Err: fmt.Errorf("parse response: %w", err)}
	}
	if err := validateQuestions(out.Questions, g.config.QuestionCount, g.config.OptionCount); err != nil {
		return nil, &GenerationError{Stage: "questions", Err: err}
	}
	out.Topic = strings.TrimSpace(out.Topic)
	return &out, nil
}

func (g *LLMGenerator) generateOutcome(ctx context.Context, text string) (assessment.LearningOutcome, error) {
	ctx = llm.WithPurpose(ctx, PurposeOutcome)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      outcomeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildOutcomeMessage(text)}},
		Schema:      LearningOutcomeSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return assessment.LearningOutcome{}, &GenerationError{Stage: "learning-outcome", Err: err}
	}

	var raw assessment.LearningOutcome
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return assessment.LearningOutcome{}, &GenerationError{Stage: "learning-outcome", Err: fmt.Errorf("parse response: %w", err)}
	}
	if err := validateOutcome(raw); err != nil {
		return assessment.LearningOutcome{}, &GenerationError{Stage: "learning-outcome", Err: err}
	}
	o, err := NormalizeOutcome(raw)
	if err != nil {
		return assessment.LearningOutcome{}, &GenerationError{Stage: "learning-outcome", Err: err}
	}
	return o, nil
}
