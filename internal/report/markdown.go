package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/jonathan/researchscope/internal/pipeline"
)

// WriteMarkdown writes the full report, including every stage, as Markdown.
func WriteMarkdown(w io.Writer, r *pipeline.Report) error {
	md := markdown.NewMarkdown(w)

	writeHeader(md, r)
	writeDescription(md, r)
	writeKeywords(md, r)
	writeSearchResults(md, r)
	writeSummary(md, r)
	writeFinal(md, r)
	writeInsights(md, r)
	writeStages(md, r)
	writeFooter(md)

	return md.Build()
}

func writeHeader(md *markdown.Markdown, r *pipeline.Report) {
	md.H1("Research Analysis Report")
	md.PlainText("")

	query := r.Query
	if query == "" {
		query = "-"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Report ID", "`" + r.ID.String() + "`"},
			{"Created", r.CreatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", r.Duration.Round(time.Millisecond).String()},
			{"Search Query", cell(query)},
			{"Search Results", strconv.Itoa(len(r.SearchResults))},
		},
	})
	md.PlainText("")
}

func writeDescription(md *markdown.Markdown, r *pipeline.Report) {
	md.H2("Project Description")
	md.PlainText("")
	md.PlainText(r.Description)
	md.PlainText("")
}

func writeKeywords(md *markdown.Markdown, r *pipeline.Report) {
	md.H2("Keywords")
	md.PlainText("")
	if len(r.Keywords) == 0 {
		md.PlainText("No structured keywords were extracted.")
		md.PlainText("")
		return
	}
	md.BulletList(r.Keywords...)
	md.PlainText("")
}

func writeSearchResults(md *markdown.Markdown, r *pipeline.Report) {
	md.H2("Search Results")
	md.PlainText("")

	if r.SearchError != "" {
		md.Warningf("Search failed: %s", r.SearchError)
		md.PlainText("")
		return
	}
	if len(r.SearchResults) == 0 {
		md.Note("The search returned no results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.SearchResults))
	for i, res := range r.SearchResults {
		title := cell(res.Title)
		if res.URL != "" {
			title = "[" + title + "](" + res.URL + ")"
		}
		rows[i] = []string{strconv.Itoa(i + 1), title, cell(res.Snippet)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "Snippet"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeSummary(md *markdown.Markdown, r *pipeline.Report) {
	out, ok := r.Output(pipeline.StageSummary)
	if !ok || strings.TrimSpace(out.Text) == "" {
		return
	}
	md.H2("Summary")
	md.PlainText("")
	md.PlainText(strings.TrimSpace(out.Text))
	md.PlainText("")
}

func writeFinal(md *markdown.Markdown, r *pipeline.Report) {
	md.H2("Validation")
	md.PlainText("")
	md.PlainText(strings.TrimSpace(r.Final))
	md.PlainText("")
}

func writeInsights(md *markdown.Markdown, r *pipeline.Report) {
	md.H2("Key Insights")
	md.PlainText("")
	labels := PresentInsights(r.Final)
	if len(labels) == 0 {
		md.PlainText("No key insights detected.")
		md.PlainText("")
		return
	}
	md.BulletList(labels...)
	md.PlainText("")
}

func writeStages(md *markdown.Markdown, r *pipeline.Report) {
	if len(r.Stages) == 0 {
		return
	}
	md.H2("Stage Outputs")
	md.PlainText("")
	for _, s := range r.Stages {
		md.Details(s.Stage.Title()+" ("+s.Agent+")", strings.TrimSpace(s.Text))
	}
	md.PlainText("")
}

func writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by ResearchScope*")
}

// cell flattens text for use in a table cell.
func cell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
