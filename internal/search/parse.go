package search

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the Scholar result page.
const (
	ContainerSelector = "div.gs_ri"
	TitleSelector     = "h3"
	SnippetSelector   = "div.gs_rs"
)

// ParseResults extracts results from a Scholar result page.
// Only the first limit containers are considered; a container missing either a
// title or a snippet is skipped.
func ParseResults(html string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	containers := doc.Find(ContainerSelector)
	if containers.Length() > limit {
		containers = containers.Slice(0, limit)
	}

	results := make([]Result, 0, containers.Length())
	containers.Each(func(_ int, s *goquery.Selection) {
		heading := s.Find(TitleSelector).First()
		title := cleanText(heading.Text())
		snippet := cleanText(s.Find(SnippetSelector).First().Text())
		if title == "" || snippet == "" {
			return
		}

		link, _ := heading.Find("a").First().Attr("href")
		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     strings.TrimSpace(link),
		})
	})

	return results, nil
}
