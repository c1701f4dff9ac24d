// Package conditions compiles condition sets into parameterized WHERE fragments.
package conditions

import (
	"iter"
	"reflect"
	"sort"
	"strings"
)

// Condition is a single column/value pair of a Set.
type Condition struct {
	Column string
	Value  interface{}
}

// IsSequence reports whether the condition compiles to a membership test.
func (c Condition) IsSequence() bool {
	return IsSequence(c.Value)
}

// Set is an ordered mapping from column name to a scalar value or a
// sequence of values. The values double as the bound parameters of the
// compiled fragment, keyed by column name.
type Set struct {
	items []Condition
	index map[string]int
}

// New creates an empty condition set.
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// FromMap creates a condition set from a map, ordered by column name.
func FromMap(m map[string]interface{}) *Set {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := New()
	for _, k := range keys {
		s.Add(k, m[k])
	}
	return s
}

// Add sets the value for a column. Re-adding a column replaces its value
// in place.
func (s *Set) Add(column string, value interface{}) *Set {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[column]; ok {
		s.items[i].Value = value
		return s
	}
	s.index[column] = len(s.items)
	s.items = append(s.items, Condition{Column: column, Value: value})
	return s
}

// Get returns the value bound to a column.
func (s *Set) Get(column string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[column]
	if !ok {
		return nil, false
	}
	return s.items[i].Value, true
}

// Len returns the number of conditions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// IsEmpty returns true if the set has no conditions.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Conditions returns a copy of the conditions in insertion order.
func (s *Set) Conditions() []Condition {
	if s == nil {
		return nil
	}
	out := make([]Condition, len(s.items))
	copy(out, s.items)
	return out
}

// All iterates over the set in insertion order.
func (s *Set) All() iter.Seq2[string, interface{}] {
	return func(yield func(string, interface{}) bool) {
		if s == nil {
			return
		}
		for _, c := range s.items {
			if !yield(c.Column, c.Value) {
				return
			}
		}
	}
}

// Params returns the bound parameters keyed by name.
func (s *Set) Params() map[string]interface{} {
	out := make(map[string]interface{}, s.Len())
	for k, v := range s.All() {
		out[k] = v
	}
	return out
}

// Raw wraps a verbatim fragment for use as a Compile override.
func Raw(fragment string) *string {
	return &fragment
}

// Compile turns a condition set into a WHERE fragment.
//
// A non-nil override is returned unchanged; its named parameters must match
// the columns of the set. Otherwise each scalar compiles to "col = :col" and
// each sequence to "col IN (:col)", joined with AND in insertion order.
// Column names are neither escaped nor validated.
func Compile(set *Set, override *string) string {
	if override != nil {
		return *override
	}

	parts := make([]string, 0, set.Len())
	for _, c := range set.Conditions() {
		if c.IsSequence() {
			parts = append(parts, c.Column+" IN (:"+c.Column+")")
		} else {
			parts = append(parts, c.Column+" = :"+c.Column)
		}
	}
	return strings.Join(parts, " AND ")
}

// IsSequence reports whether v is a slice or array other than []byte.
func IsSequence(v interface{}) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
