package contentgen

import "fmt"

// InputError reports source text the generator refuses to process.
type InputError struct {
	Length int
	Min    int
	Max    int
}

func (e *InputError) Error() string {
	if e.Length < e.Min {
		return fmt.Sprintf("text too short: %d characters, need at least %d", e.Length, e.Min)
	}
	return fmt.Sprintf("text too long: %d characters, limit is %d", e.Length, e.Max)
}

// GenerationError wraps a failure to obtain usable content from the model.
// Stage is "questions" or "learning-outcome".
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
