package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"briefops/pkg/gemini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	inputs  []string
	results []gemini.Result
	errs    []error
	calls   int
}

func (f *fakeGateway) Summarize(ctx context.Context, content string, cfg gemini.DecodingConfig) (gemini.Result, error) {
	f.inputs = append(f.inputs, content)
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var result gemini.Result
	if i < len(f.results) {
		result = f.results[i]
	}
	return result, err
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestSummarizeLongSplitsIntoChunksAndRunsFinalPass(t *testing.T) {
	gateway := &fakeGateway{
		results: []gemini.Result{
			{Text: "partial one"},
			{Text: "partial two"},
			{Text: "final"},
		},
	}
	chunker := NewChunkedSummarizer(gateway, gemini.DecodingConfig{})

	summary, err := chunker.SummarizeLong(context.Background(), words(30), 20)
	require.NoError(t, err)

	// Two chunk calls plus the reduce call
	require.Equal(t, 3, gateway.calls)
	assert.Equal(t, "partial one\n\npartial two", gateway.inputs[2])
	assert.Equal(t, "final", summary)
}

func TestSummarizeLongShortInputStillGetsReducePass(t *testing.T) {
	gateway := &fakeGateway{
		results: []gemini.Result{{Text: "partial"}, {Text: "final"}},
	}
	chunker := NewChunkedSummarizer(gateway, gemini.DecodingConfig{})

	summary, err := chunker.SummarizeLong(context.Background(), "short text", 2000)
	require.NoError(t, err)

	assert.Equal(t, 2, gateway.calls)
	assert.Equal(t, "final", summary)
}

func TestSummarizeLongChunkFailureFailsTheWholeOperation(t *testing.T) {
	gateway := &fakeGateway{
		results: []gemini.Result{{Text: "partial one"}},
		errs:    []error{nil, gemini.ErrUnavailable},
	}
	chunker := NewChunkedSummarizer(gateway, gemini.DecodingConfig{})

	_, err := chunker.SummarizeLong(context.Background(), words(30), 20)

	require.ErrorIs(t, err, gemini.ErrUnavailable)
	assert.Equal(t, 2, gateway.calls)
}

func TestSummarizeLongEmptyInput(t *testing.T) {
	chunker := NewChunkedSummarizer(&fakeGateway{}, gemini.DecodingConfig{})

	_, err := chunker.SummarizeLong(context.Background(), "   ", 2000)

	assert.ErrorIs(t, err, ErrNothingToSummarize)
}

func TestSummarizeLongEmptyFinalResult(t *testing.T) {
	gateway := &fakeGateway{
		results: []gemini.Result{{Text: "partial"}, {Empty: true}},
	}
	chunker := NewChunkedSummarizer(gateway, gemini.DecodingConfig{})

	_, err := chunker.SummarizeLong(context.Background(), "some text", 2000)

	assert.ErrorIs(t, err, ErrNoSummary)
}

func TestSplitIntoChunksBoundsEveryChunk(t *testing.T) {
	chunks := splitIntoChunks(words(45), 20)

	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(strings.Fields(chunk)), 20)
		assert.NotEmpty(t, chunk)
	}
}
