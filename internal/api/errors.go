package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	StatusCode int
	// Message is the server-provided text, empty when the body carried none.
	Message string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

// Unwrap maps well-known status codes onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Sentinel errors for common API error cases.
var (
	ErrUnauthorized = errors.New("api: unauthorized (missing or rejected credential)")
	ErrNotFound     = errors.New("api: resource not found")
	ErrMissingID    = errors.New("api: record id is required")
)

// errorBody is the error envelope of the remote API. Some deployments use
// "message" instead of "error".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseError builds an *APIError from a non-2xx response.
func parseError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Error
		if apiErr.Message == "" {
			apiErr.Message = eb.Message
		}
	}

	return apiErr
}

// Message returns the server-provided message carried by err, or fallback
// when err carries none. Transport failures always yield fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
