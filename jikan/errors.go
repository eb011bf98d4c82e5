package jikan

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidConfig indicates invalid client configuration
var ErrInvalidConfig = errors.New("invalid jikan configuration")

// APIError represents a non-2xx answer from the Jikan API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("jikan API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the API rejected the request for exceeding its rate limit
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the error is a 5xx response
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// TransportError wraps failures that happened before a status code was available
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
