// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/researchscope/internal/search"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxLinesToShow caps the stage text shown in a box
	maxLinesToShow = 12
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintKeywords outputs the extracted keywords and the search query built from them.
func (p *Printer) PrintKeywords(keywords []string, query string) {
	var sb strings.Builder

	if len(keywords) == 0 {
		sb.WriteString("(no structured keywords; using raw model output)\n")
	}
	count := min(len(keywords), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", keywords[i]))
	}
	if len(keywords) > count {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(keywords)-count))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Query: %s", query))

	p.printBox("EXTRACTED KEYWORDS", sb.String())
}

// PrintSearchResults outputs the scraped results, or the reason there are none.
func (p *Printer) PrintSearchResults(results []search.Result, searchErr error) {
	var sb strings.Builder

	switch {
	case searchErr != nil:
		sb.WriteString("⚠ Search failed:\n")
		sb.WriteString(fmt.Sprintf("  %s", searchErr.Error()))
	case len(results) == 0:
		sb.WriteString("No results found")
	default:
		count := min(len(results), maxItemsToShow)
		for i := 0; i < count; i++ {
			r := results[i]
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Title))
			sb.WriteString(fmt.Sprintf("   %s", r.Snippet))
			if i < count-1 {
				sb.WriteString("\n\n")
			}
		}
		if len(results) > count {
			sb.WriteString(fmt.Sprintf("\n\n... and %d more results", len(results)-count))
		}
	}

	p.printBox("SEARCH RESULTS", sb.String())
}

// PrintStageText outputs the first lines of a stage's model output.
func (p *Printer) PrintStageText(title, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		p.printBox(strings.ToUpper(title), "(empty response)")
		return
	}

	lines := strings.Split(text, "\n")
	shown := min(len(lines), maxLinesToShow)
	content := strings.Join(lines[:shown], "\n")
	if len(lines) > shown {
		content += fmt.Sprintf("\n... and %d more lines", len(lines)-shown)
	}

	p.printBox(strings.ToUpper(title), content)
}
