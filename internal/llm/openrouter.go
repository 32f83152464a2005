package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// Sent so requests are attributed to aicred in OpenRouter's usage
	// rankings.
	openRouterReferer = "https://github.com/abhisek/aicred"
	openRouterTitle   = "aicred"
)

// OpenRouterProvider reaches many vendors' models through OpenRouter's
// OpenAI-compatible endpoint. Model IDs carry a vendor prefix, for example
// "anthropic/claude-haiku-4.5", and are sent unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider for cfg. BaseURL defaults to
// the public OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}
	inner, err := newOpenAIProviderRaw(OpenAIConfig(cfg), openRouterHeaders())
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

func openRouterHeaders() http.Header {
	h := http.Header{}
	h.Set("HTTP-Referer", openRouterReferer)
	h.Set("X-Title", openRouterTitle)
	return h
}
