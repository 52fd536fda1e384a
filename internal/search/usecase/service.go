package usecase

import (
	"context"
	"errors"
	"fmt"

	sumdomain "briefops/internal/summarize/domain"
	sumusecase "briefops/internal/summarize/usecase"
	"briefops/pkg/gemini"
	"briefops/pkg/websearch"
)

const (
	maxSearchResults = 7
	maxSummaries     = 5

	// Gemini input budget expressed in characters. Roughly 0.75 tokens per
	// character against a 16000-token allowance.
	maxModelInputTokens = 16000
	maxTotalContentLen  = maxModelInputTokens * 4 / 3
	maxContentPerSource = 5000
)

// ErrNoResults is returned when the search engine finds nothing for a query.
var ErrNoResults = errors.New("no search results found")

// WebSearcher runs a web search and returns ranked results.
type WebSearcher interface {
	Search(ctx context.Context, query string, num int) ([]websearch.Result, error)
}

// SummaryReport is the outcome of a search-and-summarize run.
type SummaryReport struct {
	Summary   string
	Used      []sumdomain.SourceRef
	Failed    []sumdomain.SourceRef
	Truncated bool
}

// Service runs web searches and optionally condenses the top results into a
// single summary.
type Service struct {
	searcher WebSearcher
	web      sumusecase.WebFetcher
	gateway  sumusecase.Gateway
	decoding gemini.DecodingConfig
}

func NewService(searcher WebSearcher, web sumusecase.WebFetcher, gateway sumusecase.Gateway, decoding gemini.DecodingConfig) *Service {
	return &Service{
		searcher: searcher,
		web:      web,
		gateway:  gateway,
		decoding: decoding,
	}
}

// Search returns the top results for a query.
func (s *Service) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	results, err := s.searcher.Search(ctx, query, maxSearchResults)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

// SearchAndSummarize fetches the top results, aggregates their page content
// under the model's input budget, and summarizes the combined text. Pages
// that cannot be fetched are reported, not fatal.
func (s *Service) SearchAndSummarize(ctx context.Context, query string) (*SummaryReport, error) {
	results, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	var sources []sumusecase.Source
	for _, r := range results {
		ref := sumdomain.SourceRef{Title: r.Title, URL: r.Link}
		pageURL := r.Link
		title := r.Title
		sources = append(sources, sumusecase.Source{
			Ref: ref,
			Fetch: func(ctx context.Context) (string, error) {
				text, err := s.web.ExtractText(ctx, pageURL)
				if err != nil {
					return "", err
				}
				if text == "" {
					return "", nil
				}
				return fmt.Sprintf("\n\nTitle: %s\n%s", title, text), nil
			},
		})
	}

	agg := sumusecase.Aggregate(ctx, sources, sumusecase.BudgetLimits{
		MaxSources:   maxSummaries,
		MaxTotalLen:  maxTotalContentLen,
		PerSourceLen: maxContentPerSource,
	})
	if agg.Combined == "" {
		return nil, sumusecase.ErrNothingToSummarize
	}

	prompt := fmt.Sprintf("Summarize the key information about %q from the following sources:%s", query, agg.Combined)
	result, err := s.gateway.Summarize(ctx, prompt, s.decoding)
	if err != nil {
		return nil, err
	}
	if result.Empty {
		return nil, sumusecase.ErrNoSummary
	}

	return &SummaryReport{
		Summary:   result.Text,
		Used:      agg.Included,
		Failed:    agg.Failed,
		Truncated: agg.Truncated,
	}, nil
}
