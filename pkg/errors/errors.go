// Package errors provides the shared error handling framework.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies an error class.
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// Model building and solving.
	CodeValidationFail     Code = "VALIDATION_FAILED"
	CodeNoFeasibleSolution Code = "NO_FEASIBLE_SOLUTION"
	CodeModelInvalid       Code = "MODEL_INVALID"

	// Data access.
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// AppError is the application error type.
type AppError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches a detail string.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause attaches the causing error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField attaches a structured field.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates an error with the given code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the code from err, or CodeUnknown.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// Predefined errors.
var (
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrInvalidInput       = New(CodeInvalidInput, "invalid input")
	ErrInternal           = New(CodeInternal, "internal error")
	ErrTimeout            = New(CodeTimeout, "operation timed out")
	ErrNoFeasibleSolution = New(CodeNoFeasibleSolution, "no feasible solution")
)

// InvalidInput creates an invalid-field error.
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("field '%s' invalid: %s", field, reason))
}

// NotFound creates a missing-resource error.
func NotFound(resource, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s '%s' not found", resource, id))
}

// NoFeasibleSolution creates an infeasibility error.
func NoFeasibleSolution(reason string) *AppError {
	return New(CodeNoFeasibleSolution, reason)
}

// ValidationErrors collects field-level validation failures.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ValidationError is a single validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s - %s", ve.Errors[0].Field, ve.Errors[0].Message)
}

// Add appends a validation failure.
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// Addf appends a validation failure with a formatted message.
func (ve *ValidationErrors) Addf(field, format string, args ...interface{}) {
	ve.Add(field, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any failure was recorded.
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError converts the collection to an AppError.
func (ve *ValidationErrors) ToAppError() *AppError {
	err := New(CodeValidationFail, "validation failed")
	err.Fields = make(map[string]interface{})
	for _, e := range ve.Errors {
		err.Fields[e.Field] = e.Message
	}
	return err
}
