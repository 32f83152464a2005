package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted answer. A non-nil Err is returned instead
// of a Response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a script and records every request in Calls.
// It is the "mock" provider and the test double for generation code.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	route func(Request) MockResponse

	Calls []Request
}

// NewMockProvider answers calls with responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// NewRoutedMockProvider answers each call with route(req). Generation
// issues its two requests concurrently, so tests that care which answer
// goes where route on the request's schema.
func NewRoutedMockProvider(route func(Request) MockResponse) *MockProvider {
	return &MockProvider{route: route}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	next, ok := m.next(req)
	if !ok {
		return nil, &UnavailableError{}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      m.ModelID(),
		StopReason: StopEnd,
	}, nil
}

// next picks the answer for req. It reports false when the script is
// exhausted.
func (m *MockProvider) next(req Request) (MockResponse, bool) {
	if m.route != nil {
		return m.route(req), true
	}
	if len(m.queue) == 0 {
		return MockResponse{}, false
	}
	r := m.queue[0]
	m.queue = m.queue[1:]
	return r, true
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, r)
}

// CallCount returns how many calls were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
