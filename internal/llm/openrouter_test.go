package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4.1-mini"})
	assert.Error(t, err, "empty API key")

	// Vendor-prefixed IDs are never rewritten by the friendly-name table.
	for _, model := range []string{"anthropic/claude-haiku-4.5", "gpt-mini", "meta-llama/llama-3.1-8b-instruct"} {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: model})
		require.NoError(t, err)
		assert.Equal(t, model, p.ModelID())
	}

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or",
		Model:   "google/gemini-2.5-flash",
		BaseURL: "https://router.example/v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())
}

func TestOpenRouterProvider_SendsAttributionHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion("Photosynthesis", "stop"))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "openai/gpt-4.1-mini", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "topic?"}}})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", string(resp.Content))
	assert.Equal(t, openRouterReferer, got.Get("HTTP-Referer"))
	assert.Equal(t, "aicred", got.Get("X-Title"))
	assert.Equal(t, "Bearer sk-or", got.Get("Authorization"))
}
