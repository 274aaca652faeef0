package client

import (
	"errors"
	"fmt"
)

// genericFailureMessage is the user-safe text shown when the backend is
// unreachable or returns something we cannot interpret. Raw transport
// error text never reaches the user.
const genericFailureMessage = "could not reach the marketplace — please try again"

// HTTPError represents a transport-level failure: a non-2xx response
// from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// APIError represents an application-level failure: a well-formed
// envelope with `success: false`.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request rejected by server"
	}
	return e.Message
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError
// with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// UserMessage translates an error into text safe to show the user: the
// server's own message for application failures, a generic connectivity
// message for everything else.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode < 500 && httpErr.Message != "" {
		return httpErr.Message
	}
	return genericFailureMessage
}
