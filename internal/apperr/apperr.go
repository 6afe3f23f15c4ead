// Package apperr holds the error kinds shared by the service and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"go-inventory-api/pkg/validator"
)

var (
	// ErrNotFound is returned for absent entities and for entities outside the
	// caller's scope alike.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a concurrent write was detected; the caller may retry.
	ErrConflict = errors.New("concurrent update conflict, please retry")
	// ErrDuplicate is raised by repositories on unique constraint violations.
	ErrDuplicate = errors.New("duplicate value")
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries every violated field, not only the first one.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure.
func (e *ValidationError) Add(field, tag, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Tag: tag, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// FromValidator converts struct tag failures into a ValidationError.
func FromValidator(errs []*validator.ErrorResponse) *ValidationError {
	v := &ValidationError{}
	for _, e := range errs {
		v.Fields = append(v.Fields, FieldError{
			Field:   e.FailedField,
			Tag:     e.Tag,
			Param:   e.Value,
			Message: e.Message(),
		})
	}
	return v
}

// Invalid builds a single-field ValidationError.
func Invalid(field, tag, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, tag, message)
	return v
}

// NotifierFailure wraps an error returned by a low-stock notifier. It is
// logged by the service and never returned to callers.
type NotifierFailure struct {
	Notifier string
	Err      error
}

func (e *NotifierFailure) Error() string {
	return fmt.Sprintf("notifier %s failed: %v", e.Notifier, e.Err)
}

func (e *NotifierFailure) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
