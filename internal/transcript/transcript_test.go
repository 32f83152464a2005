package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/aicred/internal/httpx"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{" dQw4w9WgXcQ ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/12345", "", false},
		{"short", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExtractVideoID(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidURL)
				assert.False(t, ValidURL(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClean(t *testing.T) {
	got := Clean([]string{"[Music]  welcome to", "the\nlecture [00:01:02]", "  on cells "})
	assert.Equal(t, "welcome to the lecture on cells", got)
	assert.Empty(t, Clean([]string{"[Applause]", " "}))
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *SearchAPIFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSearchAPIFetcher("test-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRetry(httpx.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	)
}

func TestSearchAPIFetcher_Fetch(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "youtube_transcripts", r.URL.Query().Get("engine"))
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("video_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		json.NewEncoder(w).Encode(map[string]any{
			"transcripts": []map[string]any{
				{"text": "[Music] Cells are", "start": 0, "duration": 2},
				{"text": "the basic unit   of life.", "start": 2, "duration": 3},
			},
		})
	})

	text, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Cells are the basic unit of life.", text)
}

func TestSearchAPIFetcher_NoTranscript(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcripts": []}`))
	})
	_, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestSearchAPIFetcher_HTTPError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	})
	_, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	var herr *httpx.HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusUnauthorized, herr.StatusCode)
	assert.NotContains(t, err.Error(), "test-key")
}

func TestSearchAPIFetcher_Validation(t *testing.T) {
	_, err := NewSearchAPIFetcher("k").Fetch(context.Background(), "not a video")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = NewSearchAPIFetcher("").Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(txt, []byte("\n# Cells\nMitochondria make ATP.\n"), 0o644))
	got, err := ReadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "# Cells\nMitochondria make ATP.", got)

	_, err = ReadFile(filepath.Join(dir, "paper.pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ReadFile(filepath.Join(dir, "essay.docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFile)
}

func TestReadFile_Spreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Term"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Meaning"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Osmosis"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Diffusion of water"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Term Meaning\nOsmosis Diffusion of water", got)
}
