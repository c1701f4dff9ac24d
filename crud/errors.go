package crud

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/sqlcrud/runtime/client"
)

var (
	// ErrNotFound is returned when a read matches no rows.
	ErrNotFound = client.ErrNotFound

	// ErrNotSaved is returned when a create or update wrote nothing.
	ErrNotSaved = errors.New("entity not saved")
)

// OperationError wraps a failed CRUD call with the operation and source.
type OperationError struct {
	Operation string
	Source    string
	Cause     error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Source, e.Cause)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotSaved checks if an error reports a write that changed nothing.
func IsNotSaved(err error) bool {
	return errors.Is(err, ErrNotSaved)
}
