package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const timedTextURL = "https://video.google.com/timedtext"

// ErrNoTranscript is returned when a video has no retrievable transcript.
var ErrNoTranscript = errors.New("no transcript available for this video")

var videoIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?|shorts)/|.*[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// VideoID extracts the 11-character video ID from a YouTube URL, or returns
// an empty string when the URL is not a recognizable YouTube link.
func VideoID(rawURL string) string {
	match := videoIDRe.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// Segment is one transcript entry with its start offset in seconds.
type Segment struct {
	Text  string
	Start float64
}

// Client fetches video transcripts from the public timedtext endpoint.
type Client struct {
	client *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{client: &http.Client{Timeout: timeout}}
}

type timedText struct {
	Texts []struct {
		Start float64 `xml:"start,attr"`
		Body  string  `xml:",chardata"`
	} `xml:"text"`
}

// Segments returns the ordered transcript entries for a video.
func (c *Client) Segments(ctx context.Context, videoID string) ([]Segment, error) {
	endpoint := fmt.Sprintf("%s?lang=en&v=%s", timedTextURL, url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrNoTranscript
	}

	var parsed timedText
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	if len(parsed.Texts) == 0 {
		return nil, ErrNoTranscript
	}

	segments := make([]Segment, 0, len(parsed.Texts))
	for _, t := range parsed.Texts {
		segments = append(segments, Segment{
			Text:  html.UnescapeString(strings.TrimSpace(t.Body)),
			Start: t.Start,
		})
	}
	return segments, nil
}

// Transcript returns the full transcript text, segments joined by spaces.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	segments, err := c.Segments(ctx, videoID)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoTranscript
	}
	return strings.Join(parts, " "), nil
}
