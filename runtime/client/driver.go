package client

import (
	"context"

	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/types"
)

// InsertResult describes the outcome of an insert or replace.
type InsertResult struct {
	// ID is the generated key of a single-row insert when HasID is set.
	ID    int64
	HasID bool

	RowsAffected int64
}

// Inserted reports whether any row was written.
func (r InsertResult) Inserted() bool {
	return r.HasID || r.RowsAffected > 0
}

// Driver is the storage surface the mapping layer depends on.
//
// Named parameters in query text and condition fragments are written as
// :column and bound from the condition set. Fetches that match nothing
// return ErrNotFound.
type Driver interface {
	Insert(ctx context.Context, table string, row *types.Row, ignore bool) (InsertResult, error)
	InsertMany(ctx context.Context, table string, rows []*types.Row, ignore bool) (InsertResult, error)
	Replace(ctx context.Context, table string, row *types.Row) (InsertResult, error)
	ReplaceMany(ctx context.Context, table string, rows []*types.Row) (InsertResult, error)

	// Update and Delete report whether at least one row matched.
	Update(ctx context.Context, table string, conds *conditions.Set, row *types.Row, fragment string) (bool, error)
	Delete(ctx context.Context, table string, conds *conditions.Set, fragment string) (bool, error)

	FetchRow(ctx context.Context, query string, params *conditions.Set) (*types.Row, error)
	FetchRowMany(ctx context.Context, query string, params *conditions.Set) ([]*types.Row, error)
	FetchRowManyCursor(ctx context.Context, query string, params *conditions.Set) (*Cursor[*types.Row], error)
	FetchColumn(ctx context.Context, query string, params *conditions.Set) (interface{}, error)
	FetchColumnMany(ctx context.Context, query string, params *conditions.Set) ([]interface{}, error)
	FetchColumnManyCursor(ctx context.Context, query string, params *conditions.Set) (*Cursor[interface{}], error)

	ExecuteSQL(ctx context.Context, query string) (bool, error)

	// GetRowCount returns the number of rows affected or returned by the
	// last statement.
	GetRowCount() (int64, error)
}
