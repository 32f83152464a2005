package llm

import (
	"context"
	"encoding/json"
)

// Provider generates text or schema-shaped JSON from a prompt. The
// vendor implementations live beside it; decorators add timeouts,
// retries and event logging.
type Provider interface {
	// Generate answers req. With a Schema set the returned Content has
	// been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default in place for
	// providers that treat unset and zero differently.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema definition. Name doubles as the cache key
// for the compiled validator and as the vendor-side schema name, so it
// must be unique per definition, e.g. "assessment-questions".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a provider's answer.
type Response struct {
	// Content is the JSON object for schema requests, otherwise the
	// trimmed answer text.
	Content    json.RawMessage
	Usage      Usage
	Model      string // as reported by the vendor, may carry a date suffix
	StopReason string // StopEnd or StopMaxTokens
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish turns a provider's raw answer into a Response. Structured output
// cut off at the token limit is a TruncatedError, not an invalid response.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil && stop == StopMaxTokens {
		return nil, &TruncatedError{Content: content}
	}
	content, err := structured(req.Schema, content)
	if err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
