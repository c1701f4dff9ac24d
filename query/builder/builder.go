// Package builder provides a fluent description of a table-level operation.
package builder

import (
	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/types"
)

// QueryBuilder accumulates the state of one operation: query text, target
// table, data to write, conditions and sort order. Setting single-row data
// clears multi-row data and vice versa.
type QueryBuilder struct {
	query           string
	table           string
	data            *types.Row
	multiData       []*types.Row
	multi           bool
	conditions      *conditions.Set
	conditionsQuery *string
	sortBy          string
	insertIgnore    bool
}

// NewQueryBuilder creates an empty query builder
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Query sets the query text
func (q *QueryBuilder) Query(query string) *QueryBuilder {
	q.query = query
	return q
}

// Table sets the table name
func (q *QueryBuilder) Table(table string) *QueryBuilder {
	q.table = table
	return q
}

// Data sets a single row to write
func (q *QueryBuilder) Data(row *types.Row) *QueryBuilder {
	q.data = row
	q.multiData = nil
	q.multi = false
	return q
}

// MultiData sets several rows to write. The builder stays in multi-row
// mode even when rows is empty.
func (q *QueryBuilder) MultiData(rows ...*types.Row) *QueryBuilder {
	q.multiData = rows
	q.multi = true
	q.data = nil
	return q
}

// Where sets the conditions
func (q *QueryBuilder) Where(conds *conditions.Set) *QueryBuilder {
	q.conditions = conds
	return q
}

// WhereRaw sets a condition fragment used instead of the compiled
// conditions. Its :name parameters are bound from the conditions.
func (q *QueryBuilder) WhereRaw(fragment string) *QueryBuilder {
	q.conditionsQuery = &fragment
	return q
}

// SortBy sets the ORDER BY expression. It is inserted verbatim.
func (q *QueryBuilder) SortBy(sort string) *QueryBuilder {
	q.sortBy = sort
	return q
}

// InsertIgnore toggles skipping rows that violate unique keys
func (q *QueryBuilder) InsertIgnore(ignore bool) *QueryBuilder {
	q.insertIgnore = ignore
	return q
}

// GetQuery returns the query text
func (q *QueryBuilder) GetQuery() string {
	return q.query
}

// GetTableName returns the table name
func (q *QueryBuilder) GetTableName() string {
	return q.table
}

// GetData returns the single row to write; never nil
func (q *QueryBuilder) GetData() *types.Row {
	if q.data == nil {
		return types.NewRow()
	}
	return q.data
}

// GetMultiData returns the rows to write; never nil
func (q *QueryBuilder) GetMultiData() []*types.Row {
	if q.multiData == nil {
		return []*types.Row{}
	}
	return q.multiData
}

// HasMultiData reports whether MultiData was called after the last Data
func (q *QueryBuilder) HasMultiData() bool {
	return q.multi
}

// GetConditions returns the conditions; never nil
func (q *QueryBuilder) GetConditions() *conditions.Set {
	if q.conditions == nil {
		return conditions.New()
	}
	return q.conditions
}

// GetConditionsQuery returns the raw condition fragment, nil when unset
func (q *QueryBuilder) GetConditionsQuery() *string {
	return q.conditionsQuery
}

// HasConditionsQuery reports whether a raw condition fragment was set
func (q *QueryBuilder) HasConditionsQuery() bool {
	return q.conditionsQuery != nil
}

// GetSortBy returns the ORDER BY expression
func (q *QueryBuilder) GetSortBy() string {
	return q.sortBy
}

// HasInsertIgnore reports whether insert-ignore is set
func (q *QueryBuilder) HasInsertIgnore() bool {
	return q.insertIgnore
}

// WhereClause compiles the conditions, or returns the raw fragment
func (q *QueryBuilder) WhereClause() string {
	return conditions.Compile(q.GetConditions(), q.conditionsQuery)
}
