package contentgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// QuestionCount is the number of questions requested per assessment.
	QuestionCount int

	// OptionCount is the number of answer options per question.
	OptionCount int

	// MinInputRunes and MaxInputRunes bound the source text length.
	MinInputRunes int
	MaxInputRunes int

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the standard two-question configuration.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 2,
		OptionCount:   4,
		MinInputRunes: 50,
		MaxInputRunes: 2500,
		MaxTokens:     1024,
		Temperature:   0.4,
	}
}
