package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	sumusecase "briefops/internal/summarize/usecase"
	"briefops/pkg/gemini"
	"briefops/pkg/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results []websearch.Result
	err     error
	lastNum int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, num int) ([]websearch.Result, error) {
	f.lastNum = num
	return f.results, f.err
}

type fakePageFetcher struct {
	pages map[string]string
	errs  map[string]error
}

func (f *fakePageFetcher) ExtractText(ctx context.Context, pageURL string) (string, error) {
	if err, ok := f.errs[pageURL]; ok {
		return "", err
	}
	return f.pages[pageURL], nil
}

type fakeGateway struct {
	input  string
	result gemini.Result
	err    error
}

func (f *fakeGateway) Summarize(ctx context.Context, content string, cfg gemini.DecodingConfig) (gemini.Result, error) {
	f.input = content
	return f.result, f.err
}

func searchResults(links ...string) []websearch.Result {
	results := make([]websearch.Result, 0, len(links))
	for _, link := range links {
		results = append(results, websearch.Result{Title: "Title " + link, Link: link, Snippet: "snippet"})
	}
	return results
}

func TestSearchRequestsTheConfiguredResultCount(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults("https://a")}
	svc := NewService(searcher, &fakePageFetcher{}, &fakeGateway{}, gemini.DecodingConfig{})

	_, err := svc.Search(context.Background(), "golang")
	require.NoError(t, err)

	assert.Equal(t, maxSearchResults, searcher.lastNum)
}

func TestSearchWithNoResults(t *testing.T) {
	svc := NewService(&fakeSearcher{}, &fakePageFetcher{}, &fakeGateway{}, gemini.DecodingConfig{})

	_, err := svc.Search(context.Background(), "golang")

	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchAndSummarizeReportsFailedSources(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults("https://a", "https://b", "https://c")}
	fetcher := &fakePageFetcher{
		pages: map[string]string{"https://a": "alpha content", "https://c": "gamma content"},
		errs:  map[string]error{"https://b": errors.New("timeout")},
	}
	gateway := &fakeGateway{result: gemini.Result{Text: "combined summary"}}
	svc := NewService(searcher, fetcher, gateway, gemini.DecodingConfig{})

	report, err := svc.SearchAndSummarize(context.Background(), "golang")
	require.NoError(t, err)

	assert.Equal(t, "combined summary", report.Summary)
	require.Len(t, report.Used, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "https://b", report.Failed[0].URL)
	assert.Contains(t, gateway.input, "alpha content")
	assert.Contains(t, gateway.input, "gamma content")
	assert.Contains(t, gateway.input, "Title https://a")
}

func TestSearchAndSummarizeCapsTheSourceCount(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults(
		"https://1", "https://2", "https://3", "https://4", "https://5", "https://6", "https://7",
	)}
	fetcher := &fakePageFetcher{pages: map[string]string{}}
	for _, r := range searcher.results {
		fetcher.pages[r.Link] = "content for " + r.Link
	}
	gateway := &fakeGateway{result: gemini.Result{Text: "ok"}}
	svc := NewService(searcher, fetcher, gateway, gemini.DecodingConfig{})

	report, err := svc.SearchAndSummarize(context.Background(), "golang")
	require.NoError(t, err)

	assert.Len(t, report.Used, maxSummaries)
}

func TestSearchAndSummarizeTruncatesOversizedSources(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults("https://a")}
	fetcher := &fakePageFetcher{
		pages: map[string]string{"https://a": strings.Repeat("x", 3*maxContentPerSource)},
	}
	gateway := &fakeGateway{result: gemini.Result{Text: "ok"}}
	svc := NewService(searcher, fetcher, gateway, gemini.DecodingConfig{})

	_, err := svc.SearchAndSummarize(context.Background(), "golang")
	require.NoError(t, err)

	// The prompt carries the query plus one truncated source block
	assert.Less(t, len(gateway.input), maxContentPerSource+200)
}

func TestSearchAndSummarizeWhenEveryFetchFails(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults("https://a", "https://b")}
	fetcher := &fakePageFetcher{errs: map[string]error{
		"https://a": errors.New("down"),
		"https://b": errors.New("down"),
	}}
	svc := NewService(searcher, fetcher, &fakeGateway{}, gemini.DecodingConfig{})

	_, err := svc.SearchAndSummarize(context.Background(), "golang")

	assert.ErrorIs(t, err, sumusecase.ErrNothingToSummarize)
}

func TestSearchAndSummarizeEmptyModelResponse(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults("https://a")}
	fetcher := &fakePageFetcher{pages: map[string]string{"https://a": "content"}}
	gateway := &fakeGateway{result: gemini.Result{Empty: true}}
	svc := NewService(searcher, fetcher, gateway, gemini.DecodingConfig{})

	_, err := svc.SearchAndSummarize(context.Background(), "golang")

	assert.ErrorIs(t, err, sumusecase.ErrNoSummary)
}
