package websearch

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Result is one web search hit.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Client wraps the Google Custom Search API.
type Client struct {
	svc      *customsearch.Service
	engineID string
}

func NewClient(ctx context.Context, apiKey, engineID string) (*Client, error) {
	if apiKey == "" || engineID == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY and SEARCH_ENGINE_ID are required")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	return &Client{svc: svc, engineID: engineID}, nil
}

// Search returns up to num results for the query.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	resp, err := c.svc.Cse.List().Cx(c.engineID).Q(query).Num(int64(num)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
