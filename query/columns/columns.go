// Package columns maps entity fields to table columns through typed accessors.
package columns

import (
	"fmt"

	"github.com/satishbabariya/sqlcrud/runtime/types"
)

// MappingError is returned when a column map cannot read or write a field.
// A missing accessor or mutator is a configuration error; a value that
// cannot be coerced into the field type is reported the same way.
type MappingError struct {
	Field  string
	Column string
	Op     string // "get" or "set"
	Err    error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mapping %s field %q (column %q): %v", e.Op, e.Field, e.Column, e.Err)
	}
	return fmt.Sprintf("mapping %s field %q (column %q): no %s", e.Op, e.Field, e.Column, accessorName(e.Op))
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.Err
}

func accessorName(op string) string {
	if op == "set" {
		return "mutator"
	}
	return "accessor"
}

// Field binds a field identifier of entity type E to a column.
type Field[E any] struct {
	Name   string
	Column string

	get func(E) interface{}
	set func(E, interface{}) error
}

// Bind declares a field with typed accessor and mutator closures. Values
// read from the database are coerced to V before set is called. Either
// closure may be nil; using the missing direction yields a MappingError.
func Bind[E any, V any](name, column string, get func(E) V, set func(E, V)) Field[E] {
	f := Field[E]{Name: name, Column: column}
	if get != nil {
		f.get = func(e E) interface{} { return get(e) }
	}
	if set != nil {
		f.set = func(e E, raw interface{}) error {
			v, err := Convert[V](raw)
			if err != nil {
				return err
			}
			set(e, v)
			return nil
		}
	}
	return f
}

// CanGet reports whether the field has an accessor.
func (f Field[E]) CanGet() bool { return f.get != nil }

// CanSet reports whether the field has a mutator.
func (f Field[E]) CanSet() bool { return f.set != nil }

// ColumnMap is an ordered mapping from field identifiers to columns.
type ColumnMap[E any] struct {
	fields   []Field[E]
	byName   map[string]int
	byColumn map[string]int
}

// NewColumnMap creates a column map. A repeated field identifier replaces
// the earlier declaration; when two fields share a column the later one
// wins for both projection and population.
func NewColumnMap[E any](fields ...Field[E]) *ColumnMap[E] {
	m := &ColumnMap[E]{
		byName:   make(map[string]int, len(fields)),
		byColumn: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if i, ok := m.byName[f.Name]; ok {
			m.fields[i] = f
			continue
		}
		m.byName[f.Name] = len(m.fields)
		m.fields = append(m.fields, f)
	}
	for i, f := range m.fields {
		m.byColumn[f.Column] = i
	}
	return m
}

// Len returns the number of fields.
func (m *ColumnMap[E]) Len() int {
	return len(m.fields)
}

// Fields returns the fields in declaration order.
func (m *ColumnMap[E]) Fields() []Field[E] {
	out := make([]Field[E], len(m.fields))
	copy(out, m.fields)
	return out
}

// Columns returns the column names in declaration order.
func (m *ColumnMap[E]) Columns() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.Column
	}
	return out
}

// Field returns the field declared under name.
func (m *ColumnMap[E]) Field(name string) (Field[E], bool) {
	i, ok := m.byName[name]
	if !ok {
		return Field[E]{}, false
	}
	return m.fields[i], true
}

// FieldForColumn returns the field that populates column.
func (m *ColumnMap[E]) FieldForColumn(column string) (Field[E], bool) {
	i, ok := m.byColumn[column]
	if !ok {
		return Field[E]{}, false
	}
	return m.fields[i], true
}

// Project reads every mapped field of e into a row keyed by column.
func (m *ColumnMap[E]) Project(e E) (*types.Row, error) {
	row := types.NewRow()
	for _, f := range m.fields {
		if f.get == nil {
			return nil, &MappingError{Field: f.Name, Column: f.Column, Op: "get"}
		}
		row.Set(f.Column, f.get(e))
	}
	return row, nil
}

// Populate writes every mapped column of row into e and returns e.
// Columns without a mapped field are ignored.
func (m *ColumnMap[E]) Populate(e E, row *types.Row) (E, error) {
	for column, value := range row.All() {
		i, ok := m.byColumn[column]
		if !ok {
			continue
		}
		f := m.fields[i]
		if f.set == nil {
			return e, &MappingError{Field: f.Name, Column: f.Column, Op: "set"}
		}
		if err := f.set(e, value); err != nil {
			return e, &MappingError{Field: f.Name, Column: f.Column, Op: "set", Err: err}
		}
	}
	return e, nil
}
