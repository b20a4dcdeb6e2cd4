package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/researchscope/internal/pipeline"
	"github.com/jonathan/researchscope/internal/prompts"
	"github.com/jonathan/researchscope/internal/report"
)

// AnalyzeRequest represents the request body for the analyze endpoints.
// Example names one of the bundled example projects and is used when
// Description is empty.
type AnalyzeRequest struct {
	Description string `json:"description" validate:"required_without=Example,max=20000"`
	Example     string `json:"example,omitempty"`
}

// ReportResponse is the JSON view of a finished analysis.
type ReportResponse struct {
	*pipeline.Report
	Insights    []report.Insight `json:"insights"`
	ReportURL   string           `json:"report_url"`
	DownloadURL string           `json:"download_url"`
}

// ReportSummary is one entry of the report listing.
type ReportSummary struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	URL         string `json:"url"`
}

func newReportResponse(r *pipeline.Report) ReportResponse {
	id := r.ID.String()
	return ReportResponse{
		Report:      r,
		Insights:    report.Insights(r.Final),
		ReportURL:   "/reports/" + id,
		DownloadURL: "/reports/" + id + "/download",
	}
}

// resolve returns the project description the request asks to analyze.
func (s *Server) resolve(req AnalyzeRequest) (string, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.Example = strings.TrimSpace(req.Example)

	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			if verrs[0].Tag() == "max" {
				return "", &ErrValidation{Field: field, Message: "is too long"}
			}
			return "", &ErrValidation{Field: field, Message: "please enter a project description"}
		}
		return "", &ErrValidation{Field: "description", Message: err.Error()}
	}

	if req.Description != "" {
		return req.Description, nil
	}
	example, ok := prompts.FindExample(req.Example)
	if !ok {
		return "", &ErrValidation{Field: "example", Message: fmt.Sprintf("unknown example %q", req.Example)}
	}
	return example.Description, nil
}

// acquire takes the single analysis slot without waiting.
func (s *Server) acquire() (release func(), err error) {
	if !s.running.TryAcquire(1) {
		return nil, &ErrAnalysisInProgress{}
	}
	return func() { s.running.Release(1) }, nil
}

// runAnalysis runs the pipeline and stores the resulting report.
// The caller must hold the analysis slot.
func (s *Server) runAnalysis(ctx context.Context, description string, onProgress pipeline.ProgressCallback) (*pipeline.Report, error) {
	opts := s.runOpts
	opts.OnProgress = onProgress

	runner, err := pipeline.New(s.client, s.searcher, opts)
	if err != nil {
		return nil, err
	}

	rep, err := runner.Run(ctx, description)
	if err != nil {
		log.Printf("Analysis failed: %v", err)
		return nil, err
	}

	s.store.Add(rep)
	log.Printf("Analysis %s completed in %v", rep.ID, rep.Duration)
	return rep, nil
}

// lookupReport finds a stored report by the {id} path value.
func (s *Server) lookupReport(r *http.Request) (*pipeline.Report, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &ErrReportNotFound{ID: raw}
	}
	rep, ok := s.store.Get(id)
	if !ok {
		return nil, &ErrReportNotFound{ID: raw}
	}
	return rep, nil
}

// handleAnalyze runs an analysis synchronously and returns the report as JSON
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	description, err := s.resolve(req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	release, err := s.acquire()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer release()

	rep, err := s.runAnalysis(r.Context(), description, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, newReportResponse(rep))
}

// handleAnalyzeStream runs an analysis and streams stage progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	description, err := s.resolve(req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// Claim the slot before the stream starts so a busy server still answers 409.
	release, err := s.acquire()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	defer release()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("stage", event); err != nil {
			log.Printf("Failed to write progress event: %v", err)
		}
	}

	rep, err := s.runAnalysis(r.Context(), description, onProgress)
	if err != nil {
		sse.WriteError(err.Error(), HTTPStatus(err))
		return
	}
	sse.WriteComplete(rep.ID.String())
}

// handleGetReport returns a stored report as JSON
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.lookupReport(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, newReportResponse(rep))
}

// handleListReports returns stored reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, _ *http.Request) {
	reports := s.store.List()
	out := make([]ReportSummary, 0, len(reports))
	for _, rep := range reports {
		id := rep.ID.String()
		out = append(out, ReportSummary{
			ID:          id,
			Description: rep.Description,
			CreatedAt:   rep.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			URL:         "/reports/" + id,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleExamples returns the bundled example projects
func (s *Server) handleExamples(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.examples)
}

// handleDownload serves the final analysis as a file
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rep, err := s.lookupReport(r)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	if err := report.Write(w, rep, format); err != nil {
		log.Printf("Error writing report %s: %v", rep.ID, err)
	}
}
