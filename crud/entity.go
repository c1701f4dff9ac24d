package crud

import "github.com/satishbabariya/sqlcrud/query/columns"

// Entity is implemented by types managed by a CrudManager. E is the
// implementing type itself, usually a pointer to a struct.
type Entity[E any] interface {
	// CrudColumns returns the field to column mapping.
	CrudColumns() *columns.ColumnMap[E]

	// CrudGetSource returns the table or view name.
	CrudGetSource() string

	// CrudGetQuery returns custom read query text. Empty means
	// SELECT * FROM the source.
	CrudGetQuery() string

	// CrudBeforeSave runs before create and update. An error aborts the call.
	CrudBeforeSave(isCreate bool) error

	// CrudAfterSave runs after a successful create or update.
	CrudAfterSave(isCreate bool) error

	// CrudClone returns an independent copy used as the target of each
	// row read by ReadMany.
	CrudClone() E
}

// IdentifierSetter is implemented by entities that receive the generated
// key after create.
type IdentifierSetter interface {
	SetID(id int64)
}

// Base provides no-op hooks and the default read query. Embed it to
// implement only what an entity needs.
type Base struct{}

// CrudGetQuery returns an empty query.
func (Base) CrudGetQuery() string { return "" }

// CrudBeforeSave does nothing.
func (Base) CrudBeforeSave(bool) error { return nil }

// CrudAfterSave does nothing.
func (Base) CrudAfterSave(bool) error { return nil }
