package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Category sentinels. Callers branch with errors.Is; the concrete error types
// below unwrap to these so handlers never need to know the type.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("resource conflict")
	ErrValidation = errors.New("validation failed")
)

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s with identifier [%s] not found", resource, id)}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError carries per-field messages for the error payload's
// validationErrors map.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidFields(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: fields}
}
