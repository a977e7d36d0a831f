package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const httpTimeout = 60 * time.Second

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")
)

// StatusError is returned for a non-200 response. Body holds the start of
// the response, which interaction databases use for their error messages.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Unwrap lets errors.Is match [ErrNetwork].
func (e *StatusError) Unwrap() error { return ErrNetwork }

// NewHTTPClient creates an HTTP client with the standard request timeout.
// Network queries with many added interactors can take tens of seconds.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
