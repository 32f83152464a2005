package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiModels))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":        "object",
		"description": "an assessment",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"level": map[string]any{"type": "string", "enum": []any{"PhD", "Undergraduate"}},
			"hours": map[string]any{"type": "number", "minimum": 0, "maximum": 40.5},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 10,
				"items":    map[string]any{"type": "integer"},
			},
			"draft": map[string]any{"type": "boolean"},
		},
		"required":             []string{"topic", "questions"},
		"additionalProperties": false,
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "an assessment", s.Description)
	require.Len(t, s.Properties, 5)
	assert.Equal(t, []string{"topic", "questions"}, s.Required)
	assert.Equal(t, genai.TypeString, s.Properties["topic"].Type)
	assert.Equal(t, []string{"PhD", "Undergraduate"}, s.Properties["level"].Enum)
	assert.Equal(t, genai.TypeBoolean, s.Properties["draft"].Type)

	hours := s.Properties["hours"]
	require.NotNil(t, hours.Minimum)
	require.NotNil(t, hours.Maximum)
	assert.Equal(t, 0.0, *hours.Minimum)
	assert.Equal(t, 40.5, *hours.Maximum)

	qs := s.Properties["questions"]
	assert.Equal(t, genai.TypeArray, qs.Type)
	assert.Equal(t, genai.TypeInteger, qs.Items.Type)
	require.NotNil(t, qs.MinItems)
	assert.Equal(t, int64(1), *qs.MinItems)
	assert.Equal(t, int64(10), *qs.MaxItems)
}

func TestGeminiError(t *testing.T) {
	assert.IsType(t, &RateLimitError{}, geminiError(genai.APIError{Code: 429}))
	assert.IsType(t, &UnavailableError{}, geminiError(genai.APIError{Code: 503}))
	assert.IsType(t, &RequestError{}, geminiError(genai.APIError{Code: 400}))
	assert.IsType(t, &UnavailableError{}, geminiError(errors.New("dial tcp: refused")))
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), GeminiConfig{})
	assert.Error(t, err)
}
