package validation

import (
	"fmt"
	"sort"
)

// ErrorCode constants for machine-readable error identification
const (
	ErrCodeRequired = "required"
	ErrCodeSchema   = "schema"
	ErrCodeOpenAPI  = "openapi_validation"
	ErrCodeNoRoute  = "no_route"
)

// ErrorLocation constants
const (
	LocationBody     = "body"
	LocationResponse = "response"
)

// FieldError represents a detailed validation error for a single field.
type FieldError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Location indicates where the field is: body or response
	Location string `json:"location"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %s", e.Location, e.Field, e.Message)
	}
	return e.Message
}

// Result contains the outcome of validation.
type Result struct {
	// Valid is true if validation passed
	Valid bool `json:"valid"`

	// Errors contains validation errors (when Valid is false)
	Errors []*FieldError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (r *Result) AddError(err *FieldError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// HasErrors returns true if there are any validation errors
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error, or nil when the result is valid.
func (r *Result) First() *FieldError {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// sortErrors orders errors by field so that repeated validation of the same
// body always reports the same first error.
func (r *Result) sortErrors() {
	sort.SliceStable(r.Errors, func(i, j int) bool {
		return r.Errors[i].Field < r.Errors[j].Field
	})
}

// NewRequiredError creates a FieldError for a missing required body field.
func NewRequiredError(field string) *FieldError {
	return &FieldError{
		Field:    field,
		Location: LocationBody,
		Code:     ErrCodeRequired,
		Message:  fmt.Sprintf("field '%s' is required", field),
	}
}
