package lumen

import (
	"fmt"
	"net/http"
)

// =============================================================================
// HTTP Error Helpers
// =============================================================================

// HTTPError represents an HTTP error with a status code and message.
// It implements the error interface and can be returned from handlers
// to send appropriate HTTP status codes to clients. The message is
// shown to the client for 4xx codes; 5xx responses carry only the
// generic status text.
type HTTPError struct {
	Code    int    // HTTP status code (e.g., 400, 403, 404, 500)
	Message string // Error message to return to client
	Err     error  // Optional underlying error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// BadRequest creates a 400 Bad Request error.
// Use this when the client sent invalid data.
//
// Example:
//
//	if err := validate(input); err != nil {
//	    return nil, lumen.BadRequest(err)
//	}
func BadRequest(err error) *HTTPError {
	msg := "bad request"
	if err != nil {
		msg = err.Error()
	}
	return &HTTPError{Code: http.StatusBadRequest, Message: msg, Err: err}
}

// BadRequestf creates a 400 Bad Request error with a formatted message.
func BadRequestf(format string, args ...any) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized creates a 401 Unauthorized error.
// Use this when authentication is required but not provided.
func Unauthorized(message ...string) *HTTPError {
	msg := "unauthorized"
	if len(message) > 0 {
		msg = message[0]
	}
	return &HTTPError{Code: http.StatusUnauthorized, Message: msg}
}

// Forbidden creates a 403 Forbidden error.
// Use this when the client is authenticated but not allowed.
func Forbidden(message ...string) *HTTPError {
	msg := "forbidden"
	if len(message) > 0 {
		msg = message[0]
	}
	return &HTTPError{Code: http.StatusForbidden, Message: msg}
}

// NotFoundErr creates a 404 Not Found error.
func NotFoundErr(message ...string) *HTTPError {
	msg := "not found"
	if len(message) > 0 {
		msg = message[0]
	}
	return &HTTPError{Code: http.StatusNotFound, Message: msg}
}

// UnprocessableEntity creates a 422 error for validation failures.
func UnprocessableEntity(message string) *HTTPError {
	return &HTTPError{Code: http.StatusUnprocessableEntity, Message: message}
}

// Internal creates a 500 Internal Server Error wrapping err.
// The wrapped error is logged, never sent to the client.
func Internal(err error) *HTTPError {
	return &HTTPError{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}
