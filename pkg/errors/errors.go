// Package errors defines the sentinel errors shared across the pipeline and
// an AppError wrapper that carries an HTTP status for the searcher service.
//
// The taxonomy follows the failure semantics of the batch stages: a missing
// artifact aborts the stage that needs it, a single corrupt record is skipped
// and counted, and unknown terms, emotions, or document ids degrade to a
// neutral zero contribution rather than surfacing as errors at all.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingArtifact means a required persisted structure (index,
	// emotion results, statistics) is absent. Fatal for the dependent stage.
	ErrMissingArtifact = errors.New("required artifact missing")

	// ErrRecordDecode means one source document or test case could not be
	// decoded. Recovered by skip-and-continue with a counted warning.
	ErrRecordDecode = errors.New("record decode failed")

	// ErrCorruptArtifact means an artifact file exists but fails its
	// magic-byte or checksum validation.
	ErrCorruptArtifact = errors.New("artifact corrupt")

	// ErrInvalidInput marks a search request the service cannot interpret.
	ErrInvalidInput = errors.New("invalid input")
)

// AppError pairs a sentinel error with a message and an HTTP status code for
// the query service.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError wrapping the given sentinel.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error to the HTTP status the searcher should return.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingArtifact), errors.Is(err, ErrCorruptArtifact):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
