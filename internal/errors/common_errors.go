package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataLoad        ErrorType = "DATA_LOAD"
	ErrTypeEmptyInput      ErrorType = "EMPTY_INPUT"
	ErrTypeDegenerateLabel ErrorType = "DEGENERATE_LABEL"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeNotFound        ErrorType = "NOT_FOUND"
	ErrTypeConfig          ErrorType = "CONFIG"
	ErrTypeExport          ErrorType = "EXPORT"
)

// Sentinels matched with errors.Is against any AppError of the same type.
var (
	ErrDataLoad        = errors.New("data load failed")
	ErrEmptyInput      = errors.New("empty input")
	ErrDegenerateLabel = errors.New("degenerate label")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
)

var sentinels = map[ErrorType]error{
	ErrTypeDataLoad:        ErrDataLoad,
	ErrTypeEmptyInput:      ErrEmptyInput,
	ErrTypeDegenerateLabel: ErrDegenerateLabel,
	ErrTypeValidation:      ErrValidation,
	ErrTypeNotFound:        ErrNotFound,
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's type
func (e *AppError) Is(target error) bool {
	s, ok := sentinels[e.Type]
	return ok && s == target
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewDataLoadError reports a source that is missing, unreadable or off-schema.
func NewDataLoadError(path, message string, cause error) *AppError {
	return NewAppError(ErrTypeDataLoad, message, cause).WithContext("source", path)
}

// NewEmptyInputError reports an aggregate requested over zero rows (or zero weight).
func NewEmptyInputError(operation, column string) *AppError {
	return NewAppError(ErrTypeEmptyInput,
		fmt.Sprintf("%s: no rows to aggregate over %s", operation, column), nil).
		WithContext("operation", operation).
		WithContext("column", column)
}

// NewDegenerateLabelError reports a label column with only one observed class.
func NewDegenerateLabelError(column string, missingClass int) *AppError {
	return NewAppError(ErrTypeDegenerateLabel,
		fmt.Sprintf("label %s has no rows in class %d", column, missingClass), nil).
		WithContext("column", column).
		WithContext("missing_class", missingClass)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewValidationErrorWithCause wraps a lower-level validation failure
func NewValidationErrorWithCause(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewExportError creates an export error
func NewExportError(target string, cause error) *AppError {
	return NewAppError(ErrTypeExport, "export failed", cause).WithContext("target", target)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
