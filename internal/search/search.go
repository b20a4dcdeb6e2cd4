// Package search turns a query into a short list of titled snippets.
//
// Two backends are provided: ScholarSearcher scrapes the Google Scholar result
// page, CustomSearcher calls the Programmable Search JSON API.
package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxResults is the number of results a search returns by default.
const DefaultMaxResults = 5

// Result is one search hit. URL is empty when the markup carries no link.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url,omitempty"`
}

// Searcher runs a single query against a search backend.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Error represents a failed search.
type Error struct {
	Query   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Query, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func checkQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", &Error{Query: query, Message: "empty query"}
	}
	return q, nil
}

// cleanText normalizes scraped text to NFKC and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
