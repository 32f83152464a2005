// Package transcript turns learning material sources (video links and local
// files) into plain text ready for assessment generation.
package transcript

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidURL is returned when no video ID can be extracted.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrNoTranscript is returned when the video has no transcript.
	ErrNoTranscript = errors.New("no transcript found for this video")

	// ErrMissingAPIKey is returned when the transcript API key is unset.
	ErrMissingAPIKey = errors.New("transcript API key is not configured")
)

// Fetcher retrieves the transcript of a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoURL string) (string, error)
}

var (
	videoURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([A-Za-z0-9_-]+)`)
	bareIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	markerPattern   = regexp.MustCompile(`\[[^\]]*\]`)
)

// ExtractVideoID returns the video ID from a watch, short, embed or shorts
// URL, or the input itself when it is a bare 11-character ID.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if bareIDPattern.MatchString(raw) {
		return raw, nil
	}
	if m := videoURLPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	return "", ErrInvalidURL
}

// ValidURL reports whether a video ID can be extracted from raw.
func ValidURL(raw string) bool {
	_, err := ExtractVideoID(raw)
	return err == nil
}

// Clean joins transcript segments, removes bracketed markers such as
// [Music] or [00:01] and collapses whitespace.
func Clean(segments []string) string {
	joined := strings.Join(segments, " ")
	joined = markerPattern.ReplaceAllString(joined, "")
	return strings.Join(strings.Fields(joined), " ")
}

func searchURL(base, videoID, apiKey string) string {
	q := url.Values{}
	q.Set("engine", "youtube_transcripts")
	q.Set("video_id", videoID)
	q.Set("api_key", apiKey)
	return base + "?" + q.Encode()
}
