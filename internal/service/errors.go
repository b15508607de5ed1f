package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patriciaayrah/order-management-system/internal/repository"
)

// ErrNotFound marks a lookup against an absent entity. Repository lookups
// already return this sentinel, so it is re-exported for callers that only
// import the service layer.
var ErrNotFound = repository.ErrNotFound

// ValidationError carries the full set of field errors for a rejected
// request. Validation never stops at the first bad field.
type ValidationError struct {
	Errors map[string][]string
}

// NewValidationError returns an empty, appendable validation error.
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make(map[string][]string)}
}

// Add appends a message for a field.
func (e *ValidationError) Add(field, message string) {
	e.Errors[field] = append(e.Errors[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// OperationFailedError wraps an unexpected persistence or computation
// failure. The operation name is safe to surface; the cause is for logs.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

func operationFailed(op string, err error) error {
	return &OperationFailedError{Op: op, Err: err}
}
