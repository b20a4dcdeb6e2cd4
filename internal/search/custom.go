package search

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxCustomResults is the largest page the Programmable Search API returns.
const maxCustomResults = 10

// CustomSearcher queries the Google Programmable Search JSON API.
type CustomSearcher struct {
	svc        *customsearch.Service
	cx         string
	maxResults int
}

// NewCustomSearcher creates a CustomSearcher for the search engine cx.
// Extra client options are passed to the API client.
func NewCustomSearcher(ctx context.Context, apiKey, cx string, maxResults int, opts ...option.ClientOption) (*CustomSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, errors.New("custom search requires an API key and a search engine ID")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > maxCustomResults {
		maxResults = maxCustomResults
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CustomSearcher{svc: svc, cx: cx, maxResults: maxResults}, nil
}

// Search runs one API query and returns its items as results.
func (c *CustomSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	q, err := checkQuery(query)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Cse.List().Cx(c.cx).Q(q).Num(int64(c.maxResults)).Context(ctx).Do()
	if err != nil {
		return nil, &Error{Query: q, Message: "API request failed", Cause: err}
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		title := cleanText(item.Title)
		snippet := cleanText(item.Snippet)
		if title == "" || snippet == "" {
			continue
		}
		results = append(results, Result{Title: title, Snippet: snippet, URL: item.Link})
	}
	return results, nil
}
