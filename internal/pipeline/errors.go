package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDescription is returned when the project description is blank.
	ErrEmptyDescription = errors.New("project description is empty")
	// ErrMissingCredential is returned when no model client is available.
	ErrMissingCredential = errors.New("model credential is missing")
)

// StageError reports a model failure in one stage. No later stage runs.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
