// Package apierror defines errors that carry a client-facing HTTP status and
// message. Anything that is not an APIError is reported to clients as a
// generic internal error.
package apierror

import (
	"errors"
	"net/http"
)

// APIError is an error safe to show to API clients.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// New creates APIError.
func New(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func NewErrBodyRequired() *APIError {
	return New(http.StatusBadRequest, "Request body required", "Expected JSON request body with user data")
}

func NewErrValidation(reason string) *APIError {
	return New(http.StatusBadRequest, "Validation failed", reason)
}

func NewErrNotFound() *APIError {
	return New(http.StatusNotFound, "Not found", "")
}

func NewErrMethodNotAllowed() *APIError {
	return New(http.StatusMethodNotAllowed, "Method not allowed", "")
}

func NewErrInternal() *APIError {
	return New(http.StatusInternalServerError, "Internal server error", "An unexpected error occurred processing your request")
}

// As returns the APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
