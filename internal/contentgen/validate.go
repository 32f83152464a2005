package contentgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/aicred/internal/assessment"
)

// validateQuestions checks the shape of generated questions: the expected
// count, non-empty text, optionCount non-empty options, an in-range correct
// answer and unique IDs.
func validateQuestions(qs []assessment.Question, want, optionCount int) error {
	if len(qs) == 0 {
		return errors.New("no questions returned")
	}
	if want > 0 && len(qs) != want {
		return fmt.Errorf("got %d questions, want %d", len(qs), want)
	}

	seen := make(map[int]bool, len(qs))
	for i, q := range qs {
		if seen[q.ID] {
			return fmt.Errorf("question %d: duplicate id %d", i+1, q.ID)
		}
		seen[q.ID] = true

		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d: text is empty", i+1)
		}
		if len(q.Options) != optionCount {
			return fmt.Errorf("question %d: %d options, want %d", i+1, len(q.Options), optionCount)
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("question %d: option %d is empty", i+1, j)
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("question %d: correctAnswer %d out of range", i+1, q.CorrectAnswer)
		}
		switch q.Difficulty {
		case assessment.DifficultyEasy, assessment.DifficultyMedium, assessment.DifficultyHard:
		default:
			return fmt.Errorf("question %d: unknown difficulty %q", i+1, q.Difficulty)
		}
	}
	return nil
}

func validateOutcome(o assessment.LearningOutcome) error {
	if strings.TrimSpace(o.Title) == "" {
		return errors.New("title is empty")
	}
	return nil
}
