package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/researchscope/internal/pipeline"
)

// ErrAnalysisInProgress indicates another analysis holds the single run slot
type ErrAnalysisInProgress struct{}

func (e *ErrAnalysisInProgress) Error() string {
	return "analysis already in progress, try again when it finishes"
}

// ErrReportNotFound indicates no report exists for the requested ID
type ErrReportNotFound struct {
	ID string
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		inProgress *ErrAnalysisInProgress
		notFound   *ErrReportNotFound
		validation *ErrValidation
		stageErr   *pipeline.StageError
	)
	switch {
	case errors.As(err, &inProgress):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.Is(err, pipeline.ErrEmptyDescription):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.As(err, &stageErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
