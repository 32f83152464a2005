package transcript

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abhisek/aicred/internal/httpx"
)

// DefaultSearchAPIURL is the searchapi.io search endpoint.
const DefaultSearchAPIURL = "https://www.searchapi.io/api/v1/search"

// SearchAPIFetcher fetches YouTube transcripts through searchapi.io.
type SearchAPIFetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	retry   httpx.RetryConfig
}

// SearchAPIOption configures a SearchAPIFetcher.
type SearchAPIOption func(*SearchAPIFetcher)

// WithBaseURL points the fetcher at another endpoint.
func WithBaseURL(u string) SearchAPIOption {
	return func(f *SearchAPIFetcher) { f.baseURL = u }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) SearchAPIOption {
	return func(f *SearchAPIFetcher) { f.client = c }
}

// WithRetry overrides the retry policy.
func WithRetry(cfg httpx.RetryConfig) SearchAPIOption {
	return func(f *SearchAPIFetcher) { f.retry = cfg }
}

// NewSearchAPIFetcher creates a fetcher authenticated with apiKey.
func NewSearchAPIFetcher(apiKey string, opts ...SearchAPIOption) *SearchAPIFetcher {
	f := &SearchAPIFetcher{
		apiKey:  apiKey,
		baseURL: DefaultSearchAPIURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry:   httpx.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

type searchAPIResponse struct {
	Transcripts []struct {
		Text     string  `json:"text"`
		Start    float64 `json:"start"`
		Duration float64 `json:"duration"`
	} `json:"transcripts"`
}

// Fetch returns the cleaned transcript text for videoURL.
func (f *SearchAPIFetcher) Fetch(ctx context.Context, videoURL string) (string, error) {
	id, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}
	if f.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	target := searchURL(f.baseURL, id, f.apiKey)
	var out searchAPIResponse
	err = httpx.DoJSON(ctx, f.client, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &out, f.retry)
	if err != nil {
		return "", fmt.Errorf("fetch transcript for %s: %w", id, err)
	}

	segments := make([]string, 0, len(out.Transcripts))
	for _, s := range out.Transcripts {
		segments = append(segments, s.Text)
	}
	text := Clean(segments)
	if text == "" {
		return "", ErrNoTranscript
	}
	return text, nil
}
