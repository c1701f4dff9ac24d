// Package types provides runtime types shared by the mapping layer and the driver.
package types

import (
	"iter"
	"sort"
)

// Row is an ordered mapping from column name to an opaque value.
// The zero value is an empty row ready for use.
type Row struct {
	columns []string
	values  map[string]interface{}
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]interface{})}
}

// RowFromMap creates a row from a map. Columns are ordered by name so
// the result is deterministic.
func RowFromMap(m map[string]interface{}) *Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := NewRow()
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Set stores a value for a column. Setting an existing column replaces its
// value and keeps its original position.
func (r *Row) Set(column string, value interface{}) *Row {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
	return r
}

// Get returns the value of a column.
func (r *Row) Get(column string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[column]
	return v, ok
}

// Has reports whether the row contains a column.
func (r *Row) Has(column string) bool {
	_, ok := r.Get(column)
	return ok
}

// Len returns the number of columns.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.columns)
}

// Columns returns the column names in insertion order.
func (r *Row) Columns() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Values returns the values in column order.
func (r *Row) Values() []interface{} {
	if r == nil {
		return nil
	}
	out := make([]interface{}, len(r.columns))
	for i, c := range r.columns {
		out[i] = r.values[c]
	}
	return out
}

// Map returns a copy of the row as a plain map.
func (r *Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, r.Len())
	if r == nil {
		return out
	}
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// All iterates over the row in column order.
func (r *Row) All() iter.Seq2[string, interface{}] {
	return func(yield func(string, interface{}) bool) {
		if r == nil {
			return
		}
		for _, c := range r.columns {
			if !yield(c, r.values[c]) {
				return
			}
		}
	}
}
