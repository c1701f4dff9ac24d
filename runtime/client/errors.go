package client

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/sqlcrud/query/sqlgen"
)

var (
	// ErrNotFound is returned when a fetch matches no rows.
	ErrNotFound = errors.New("no rows found")

	// ErrNoRowCount is returned by GetRowCount before any statement ran.
	ErrNoRowCount = errors.New("no statement has been executed")

	// ErrMissingConditions is returned when an update or delete has no
	// condition fragment.
	ErrMissingConditions = sqlgen.ErrMissingConditions
)

// QueryError represents a statement failure with context.
type QueryError struct {
	Operation string
	Table     string
	Query     string
	Cause     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on %s: %v", e.Operation, e.Table, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

func wrap(op, table, query string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Operation: op, Table: table, Query: query, Cause: err}
}
