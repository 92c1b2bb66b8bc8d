package service

import (
	"errors"
	"fmt"
)

// ErrNoActiveTask is returned when the loop is started before a task was selected.
var ErrNoActiveTask = errors.New("no task selected")

// InvalidTaskError reports a task id outside the catalog. The caller may ask again.
type InvalidTaskError struct {
	Input string
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task %q", e.Input)
}

// ModelLoadError reports a model that could not be loaded. It is not retried.
type ModelLoadError struct {
	Identifier string
	Err        error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Identifier, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// SourceUnavailableError reports a frame source or display that could not be opened.
type SourceUnavailableError struct {
	Component string
	Err       error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Component, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// AcquisitionError reports a source that stopped delivering frames mid-run.
// Frame is the number of frames presented before the failure.
type AcquisitionError struct {
	Frame uint64
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to read frame after %d frames", e.Frame)
}
