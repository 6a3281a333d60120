// Package errs defines the error types this API returns to clients.
//
// The wire contract is deliberately small: every failure is a JSON
// object with a single "error" field and an appropriate status code.
// HTTPError carries that wire message plus optional field-level detail
// for logs, and plays nicely with the standard errors package.
package errs

import "net/http"

// FieldError represents a single validation issue for a specific field.
// It never reaches the wire body (the contract is one "error" string);
// it is kept for structured logging.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error type handlers and services return upward.
//
// Message is the exact text serialized as {"error": Message}; it must
// never contain internals (driver messages, SQLSTATEs, stack traces).
type HTTPError struct {
	Status  int
	Message string
	Fields  []FieldError
}

// Body is the wire shape of every error response.
type Body struct {
	Error string `json:"error"`
}

// Error satisfies the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError, so
// errors.Is(err, &HTTPError{}) can be used as a type check.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WireBody returns the JSON-serializable response body for this error.
func (e *HTTPError) WireBody() Body {
	return Body{Error: e.Message}
}

// NewBadRequestError creates a 400 error with an optional list of
// field-level details for logging.
func NewBadRequestError(message string, fields ...FieldError) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: message,
		Fields:  fields,
	}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// NewMethodNotAllowedError creates the 405 returned for any request
// method outside the supported set.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusMethodNotAllowed,
		Message: "Method not allowed",
	}
}

// NewInternalServerError creates a generic 500. The client never sees
// what actually went wrong; the original error belongs in the logs.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	}
}
