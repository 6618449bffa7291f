package errors

import (
	"fmt"
	"net/http"
)

// APIError is an HTTP-level error raised by handlers before any analysis runs,
// such as a malformed or missing query parameter.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Parameter  string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewParameterError creates a 400 error about one query parameter
func NewParameterError(code, parameter, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  code,
		Message:    message,
		Parameter:  parameter,
	}
}

// InvalidParameter creates a 400 error naming the offending query parameter
func InvalidParameter(name, value string) *APIError {
	return NewParameterError("INVALID_PARAMETER", name,
		fmt.Sprintf("invalid value %q for parameter %s", value, name))
}

// MissingParameter creates a 400 error for an absent required parameter
func MissingParameter(name string) *APIError {
	return NewParameterError("MISSING_PARAMETER", name, "missing required parameter "+name)
}
