// Package executor runs builder-described operations that are not tied to
// an entity type.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/satishbabariya/sqlcrud/query/builder"
	"github.com/satishbabariya/sqlcrud/runtime/client"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/spf13/cast"
)

// ErrNoQuery is returned when a fetch has neither query text nor a table.
var ErrNoQuery = errors.New("builder has no query and no table")

// SqlManager dispatches query builders to a driver.
type SqlManager struct {
	driver client.Driver
}

// NewSqlManager creates a manager over driver
func NewSqlManager(driver client.Driver) *SqlManager {
	return &SqlManager{driver: driver}
}

// Driver returns the underlying driver
func (m *SqlManager) Driver() client.Driver {
	return m.driver
}

// SelectQuery returns the query text a fetch runs. Explicit query text is
// used as given, followed by the sort clause. Without it the query is
// synthesized from the table and conditions.
func SelectQuery(qb *builder.QueryBuilder) (string, error) {
	query := qb.GetQuery()
	if query == "" {
		if qb.GetTableName() == "" {
			return "", ErrNoQuery
		}
		query = "SELECT * FROM " + qb.GetTableName()
		if where := qb.WhereClause(); where != "" {
			query += " WHERE " + where
		}
	}
	if sort := qb.GetSortBy(); sort != "" {
		query += " ORDER BY " + sort
	}
	return query, nil
}

// FetchRow returns the first matching row
func (m *SqlManager) FetchRow(ctx context.Context, qb *builder.QueryBuilder) (*types.Row, error) {
	query, err := SelectQuery(qb)
	if err != nil {
		return nil, err
	}
	return m.driver.FetchRow(ctx, query, qb.GetConditions())
}

// FetchRowMany returns every matching row
func (m *SqlManager) FetchRowMany(ctx context.Context, qb *builder.QueryBuilder) ([]*types.Row, error) {
	query, err := SelectQuery(qb)
	if err != nil {
		return nil, err
	}
	return m.driver.FetchRowMany(ctx, query, qb.GetConditions())
}

// FetchRowManyCursor streams the matching rows. The caller must close the cursor.
func (m *SqlManager) FetchRowManyCursor(ctx context.Context, qb *builder.QueryBuilder) (*client.Cursor[*types.Row], error) {
	query, err := SelectQuery(qb)
	if err != nil {
		return nil, err
	}
	return m.driver.FetchRowManyCursor(ctx, query, qb.GetConditions())
}

// FetchColumn returns the first column of the first matching row as a
// string. A NULL value is reported as client.ErrNotFound.
func (m *SqlManager) FetchColumn(ctx context.Context, qb *builder.QueryBuilder) (string, error) {
	query, err := SelectQuery(qb)
	if err != nil {
		return "", err
	}
	v, err := m.driver.FetchColumn(ctx, query, qb.GetConditions())
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", client.ErrNotFound
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("fetch column: %w", err)
	}
	return s, nil
}

// FetchColumnMany returns the first column of every matching row
func (m *SqlManager) FetchColumnMany(ctx context.Context, qb *builder.QueryBuilder) ([]interface{}, error) {
	query, err := SelectQuery(qb)
	if err != nil {
		return nil, err
	}
	return m.driver.FetchColumnMany(ctx, query, qb.GetConditions())
}

// FetchColumnManyCursor streams the first column of every matching row.
// The caller must close the cursor.
func (m *SqlManager) FetchColumnManyCursor(ctx context.Context, qb *builder.QueryBuilder) (*client.Cursor[interface{}], error) {
	query, err := SelectQuery(qb)
	if err != nil {
		return nil, err
	}
	return m.driver.FetchColumnManyCursor(ctx, query, qb.GetConditions())
}

// Insert writes the builder's data, using a multi-row insert when it holds
// several rows
func (m *SqlManager) Insert(ctx context.Context, qb *builder.QueryBuilder) (client.InsertResult, error) {
	if qb.HasMultiData() {
		return m.driver.InsertMany(ctx, qb.GetTableName(), qb.GetMultiData(), qb.HasInsertIgnore())
	}
	return m.driver.Insert(ctx, qb.GetTableName(), qb.GetData(), qb.HasInsertIgnore())
}

// Replace writes the builder's data, replacing rows with the same keys
func (m *SqlManager) Replace(ctx context.Context, qb *builder.QueryBuilder) (client.InsertResult, error) {
	if qb.HasMultiData() {
		return m.driver.ReplaceMany(ctx, qb.GetTableName(), qb.GetMultiData())
	}
	return m.driver.Replace(ctx, qb.GetTableName(), qb.GetData())
}

// Update writes the builder's data to the matching rows
func (m *SqlManager) Update(ctx context.Context, qb *builder.QueryBuilder) (bool, error) {
	return m.driver.Update(ctx, qb.GetTableName(), qb.GetConditions(), qb.GetData(), qb.WhereClause())
}

// Delete removes the matching rows
func (m *SqlManager) Delete(ctx context.Context, qb *builder.QueryBuilder) (bool, error) {
	return m.driver.Delete(ctx, qb.GetTableName(), qb.GetConditions(), qb.WhereClause())
}

// ExecuteSQL runs the builder's query text
func (m *SqlManager) ExecuteSQL(ctx context.Context, qb *builder.QueryBuilder) (bool, error) {
	return m.driver.ExecuteSQL(ctx, qb.GetQuery())
}

// GetRowCount returns the row count of the last statement
func (m *SqlManager) GetRowCount() (int64, error) {
	return m.driver.GetRowCount()
}
