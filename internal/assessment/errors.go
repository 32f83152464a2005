package assessment

import (
	"errors"
	"fmt"
)

// ErrNoQuestions is returned when questions are presented without any.
var ErrNoQuestions = errors.New("assessment has no questions")

// TransitionError reports an operation attempted in the wrong phase.
type TransitionError struct {
	Op    string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.Phase)
}

// ValidationError reports invalid caller input. Field names the offending
// input, e.g. "email" or "responses".
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
