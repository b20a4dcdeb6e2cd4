package search

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/jonathan/researchscope/internal/fetch"
)

// DefaultScholarURL is the Scholar result page queried by ScholarSearcher.
const DefaultScholarURL = "https://scholar.google.com/scholar"

// ScholarOptions configures a ScholarSearcher.
type ScholarOptions struct {
	BaseURL    string
	MaxResults int
	Fetch      *fetch.Options

	// UseBrowser renders every page in headless Chrome instead of a plain GET.
	UseBrowser bool
	// BrowserFallback re-renders the page in headless Chrome when the plain GET
	// matched no results.
	BrowserFallback bool
	BrowserTimeout  time.Duration

	// Renderer overrides the headless Chrome renderer.
	Renderer fetch.Renderer
	Verbose  bool
}

// ScholarSearcher scrapes the Scholar result page with one unauthenticated GET.
type ScholarSearcher struct {
	baseURL    string
	maxResults int
	fetchOpts  *fetch.Options
	useBrowser bool
	fallback   bool
	render     fetch.Renderer
	verbose    bool
}

// NewScholarSearcher creates a ScholarSearcher, filling unset options with defaults.
func NewScholarSearcher(opts ScholarOptions) *ScholarSearcher {
	s := &ScholarSearcher{
		baseURL:    opts.BaseURL,
		maxResults: opts.MaxResults,
		fetchOpts:  opts.Fetch,
		useBrowser: opts.UseBrowser,
		fallback:   opts.BrowserFallback,
		render:     opts.Renderer,
		verbose:    opts.Verbose,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultScholarURL
	}
	if s.maxResults <= 0 {
		s.maxResults = DefaultMaxResults
	}
	if s.fetchOpts == nil {
		s.fetchOpts = fetch.DefaultOptions()
	}
	if s.render == nil && (s.useBrowser || s.fallback) {
		s.render = fetch.BrowserRenderer(opts.BrowserTimeout, opts.Verbose)
	}
	return s
}

// QueryURL returns the result page URL for a query.
func (s *ScholarSearcher) QueryURL(query string) string {
	return s.baseURL + "?" + url.Values{"q": {query}}.Encode()
}

// Search fetches the result page for query and parses up to MaxResults hits.
// A page with no matching containers yields an empty slice and no error.
func (s *ScholarSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	q, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	target := s.QueryURL(q)

	var html string
	if s.useBrowser {
		html, err = s.render(ctx, target)
		if err != nil {
			return nil, &Error{Query: q, Message: "browser rendering failed", Cause: err}
		}
	} else {
		res, err := fetch.URL(ctx, target, s.fetchOpts)
		if err != nil {
			return nil, &Error{Query: q, Message: "request failed", Cause: err}
		}
		html = res.HTML
	}

	results, err := ParseResults(html, s.maxResults)
	if err != nil {
		return nil, &Error{Query: q, Message: "unparseable result page", Cause: err}
	}

	if len(results) == 0 && s.fallback && !s.useBrowser {
		if s.verbose {
			log.Printf("[SEARCH] No results over HTTP, retrying with headless browser")
		}
		rendered, err := s.render(ctx, target)
		if err != nil {
			return nil, &Error{Query: q, Message: "browser rendering failed", Cause: err}
		}
		html = rendered
		results, err = ParseResults(html, s.maxResults)
		if err != nil {
			return nil, &Error{Query: q, Message: "unparseable result page", Cause: err}
		}
	}

	if len(results) == 0 {
		warnEmpty(q, html)
	}
	return results, nil
}

// warnEmpty logs whether an empty result page looked blocked or just had no hits.
func warnEmpty(query, html string) {
	text, err := fetch.ExtractMainText(html, fetch.DefaultTextSelectors())
	if err == nil && fetch.ShouldUseBrowser(text) {
		log.Printf("[SEARCH] Warning: result page for %q has almost no text (blocked or script-rendered)", query)
		return
	}
	log.Printf("[SEARCH] Warning: selector %q matched no results for %q", ContainerSelector, query)
}
