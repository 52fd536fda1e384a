package usecase

import (
	"context"
	"errors"
	"strings"

	"briefops/pkg/gemini"
)

// DefaultChunkWords bounds the word count of a single summarization input
// chunk, keeping each backend call within a safe input size.
const DefaultChunkWords = 2000

// ErrNoSummary signals that the backend produced no usable summary. It is a
// user-facing informational outcome, not a hard failure.
var ErrNoSummary = errors.New("no summary was produced")

// ErrNothingToSummarize signals that there was no content to send at all.
var ErrNothingToSummarize = errors.New("nothing to summarize")

// Gateway is the summarization backend choke point.
type Gateway interface {
	Summarize(ctx context.Context, content string, cfg gemini.DecodingConfig) (gemini.Result, error)
}

// ChunkedSummarizer performs map-reduce summarization: bounded chunks are
// summarized independently, then the concatenated partial summaries get one
// final pass. This bounds any single backend call regardless of input
// length, at the cost of one extra call.
type ChunkedSummarizer struct {
	gateway  Gateway
	decoding gemini.DecodingConfig
}

func NewChunkedSummarizer(gateway Gateway, decoding gemini.DecodingConfig) *ChunkedSummarizer {
	return &ChunkedSummarizer{gateway: gateway, decoding: decoding}
}

// SummarizeLong summarizes text of arbitrary length. Chunks are processed in
// order with no per-chunk retry; any chunk failure fails the whole operation.
func (c *ChunkedSummarizer) SummarizeLong(ctx context.Context, text string, chunkWords int) (string, error) {
	if chunkWords <= 0 {
		chunkWords = DefaultChunkWords
	}
	chunks := splitIntoChunks(text, chunkWords)
	if len(chunks) == 0 {
		return "", ErrNothingToSummarize
	}

	partials := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		result, err := c.gateway.Summarize(ctx, chunk, c.decoding)
		if err != nil {
			return "", err
		}
		partials = append(partials, result.Text)
	}

	final, err := c.gateway.Summarize(ctx, strings.Join(partials, "\n\n"), c.decoding)
	if err != nil {
		return "", err
	}
	if final.Empty {
		return "", ErrNoSummary
	}
	return final.Text, nil
}

// splitIntoChunks groups whitespace-separated words into chunks of at most
// chunkWords words. The last chunk may be shorter; no chunk is ever empty.
func splitIntoChunks(text string, chunkWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(words); start += chunkWords {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
