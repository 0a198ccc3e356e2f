package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorWrapsSentinel(t *testing.T) {
	err := New(ErrInvalidInput, http.StatusBadRequest, "q or emotion is required")

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("AppError should unwrap to its sentinel")
	}
	want := "invalid input: q or emotion is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"app error status wins", New(ErrInvalidInput, http.StatusUnprocessableEntity, "x"), http.StatusUnprocessableEntity},
		{"wrapped app error", fmt.Errorf("handling request: %w", New(ErrRecordDecode, http.StatusBadRequest, "x")), http.StatusBadRequest},
		{"bare invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"missing artifact", fmt.Errorf("loading: %w", ErrMissingArtifact), http.StatusServiceUnavailable},
		{"corrupt artifact", ErrCorruptArtifact, http.StatusServiceUnavailable},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode = %d, want %d", got, tt.want)
			}
		})
	}
}
