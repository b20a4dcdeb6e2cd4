package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/researchscope/internal/pipeline"
	"github.com/jonathan/researchscope/internal/prompts"
	"github.com/jonathan/researchscope/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxRecentReports bounds the report list on the index page.
const maxRecentReports = 10

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"round": func(d time.Duration) time.Duration { return d.Round(time.Millisecond) },
		"date":  func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
		"preview": func(s string) string {
			s = strings.Join(strings.Fields(s), " ")
			if r := []rune(s); len(r) > 80 {
				return string(r[:77]) + "..."
			}
			return s
		},
	}
	pages, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return pages, nil
}

type indexPage struct {
	Examples    []prompts.Example
	Reports     []*pipeline.Report
	Description string
	Example     string
	Error       string
}

type reportPage struct {
	Report   *pipeline.Report
	Insights []report.Insight
	Stages   []pipeline.StageOutput
}

// render executes a page into a buffer first so template errors become a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing %s: %v", name, err)
	}
}

func (s *Server) newIndexPage() indexPage {
	reports := s.store.List()
	if len(reports) > maxRecentReports {
		reports = reports[:maxRecentReports]
	}
	return indexPage{Examples: s.examples, Reports: reports}
}

// handleIndex renders the input form
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "index.html", s.newIndexPage())
}

// handleAnalyzeForm runs an analysis from the HTML form and redirects to the report
func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	req := AnalyzeRequest{
		Description: r.PostFormValue("description"),
		Example:     r.PostFormValue("example"),
	}

	page := s.newIndexPage()
	page.Description = req.Description
	page.Example = req.Example

	description, err := s.resolve(req)
	if err != nil {
		var verr *ErrValidation
		page.Error = err.Error()
		if errors.As(err, &verr) && verr.Field == "description" {
			page.Error = "Please enter a project description."
		}
		s.render(w, HTTPStatus(err), "index.html", page)
		return
	}

	release, err := s.acquire()
	if err != nil {
		page.Error = "An analysis is already running. Please try again when it finishes."
		s.render(w, HTTPStatus(err), "index.html", page)
		return
	}
	defer release()

	rep, err := s.runAnalysis(r.Context(), description, nil)
	if err != nil {
		page.Error = "Analysis failed: " + err.Error()
		s.render(w, HTTPStatus(err), "index.html", page)
		return
	}

	http.Redirect(w, r, "/reports/"+rep.ID.String(), http.StatusSeeOther)
}

// handleReportPage renders a finished analysis
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	rep, err := s.lookupReport(r)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}
	s.render(w, http.StatusOK, "report.html", reportPage{
		Report:   rep,
		Insights: report.Insights(rep.Final),
		Stages:   rep.Stages,
	})
}
