// Package crud maps entities to rows and runs create, read, update and
// delete operations through a driver.
package crud

import (
	"context"
	"errors"

	"github.com/satishbabariya/sqlcrud/internal/debug"
	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/client"
)

var log = debug.Component("crud")

// CrudManager runs entity operations against a driver. It holds no state
// between calls.
type CrudManager[E Entity[E]] struct {
	driver client.Driver
}

// NewCrudManager creates a manager for entities of type E.
func NewCrudManager[E Entity[E]](driver client.Driver) *CrudManager[E] {
	return &CrudManager[E]{driver: driver}
}

// Create inserts e. The generated key is passed to SetID when the driver
// reports one and e implements IdentifierSetter.
func (m *CrudManager[E]) Create(ctx context.Context, e E, insertIgnore bool) (E, error) {
	source := e.CrudGetSource()

	if err := e.CrudBeforeSave(true); err != nil {
		return e, m.fail("create", source, err)
	}

	row, err := e.CrudColumns().Project(e)
	if err != nil {
		return e, m.fail("create", source, err)
	}

	res, err := m.driver.Insert(ctx, source, row, insertIgnore)
	if err != nil {
		return e, m.fail("create", source, err)
	}
	if !res.Inserted() {
		return e, m.fail("create", source, ErrNotSaved)
	}

	if setter, ok := any(e).(IdentifierSetter); ok && res.HasID {
		setter.SetID(res.ID)
	}

	if err := e.CrudAfterSave(true); err != nil {
		return e, m.fail("create", source, err)
	}

	log.Debug("entity created", "source", source, "id", res.ID, "has_id", res.HasID)
	return e, nil
}

// Read loads the first row matching conds into e.
func (m *CrudManager[E]) Read(ctx context.Context, e E, conds *conditions.Set, opts ...Option) (E, error) {
	source := e.CrudGetSource()
	o := collect(opts)

	query := e.CrudGetQuery()
	if query == "" {
		query = "SELECT * FROM " + source
		if where := conditions.Compile(conds, o.conditionsQuery); where != "" {
			query += " WHERE " + where
		}
	}
	if o.sortBy != "" {
		query += " ORDER BY " + o.sortBy
	}

	row, err := m.driver.FetchRow(ctx, query, conds)
	if err != nil {
		return e, m.fail("read", source, err)
	}

	if _, err := e.CrudColumns().Populate(e, row); err != nil {
		return e, m.fail("read", source, err)
	}
	return e, nil
}

// ReadMany loads every row matching conds. Each row populates a fresh
// CrudClone of template; template itself is never modified.
func (m *CrudManager[E]) ReadMany(ctx context.Context, template E, conds *conditions.Set, opts ...Option) ([]E, error) {
	source := template.CrudGetSource()
	o := collect(opts)

	query := template.CrudGetQuery()
	if query == "" {
		query = "SELECT * FROM " + source
	}
	if !conds.IsEmpty() {
		query += " WHERE " + conditions.Compile(conds, o.conditionsQuery)
	}
	if o.sortBy != "" {
		query += " ORDER BY " + o.sortBy
	}

	cur, err := m.driver.FetchRowManyCursor(ctx, query, conds)
	if err != nil {
		return nil, m.fail("read many", source, err)
	}
	defer cur.Close()

	columnMap := template.CrudColumns()

	var out []E
	for cur.Next() {
		e, err := columnMap.Populate(template.CrudClone(), cur.Value())
		if err != nil {
			return nil, m.fail("read many", source, err)
		}
		out = append(out, e)
	}
	if err := cur.Err(); err != nil {
		return nil, m.fail("read many", source, err)
	}
	if len(out) == 0 {
		return nil, m.fail("read many", source, ErrNotFound)
	}
	return out, nil
}

// Update writes every mapped field of e to the rows matching conds.
func (m *CrudManager[E]) Update(ctx context.Context, e E, conds *conditions.Set, opts ...Option) (E, error) {
	source := e.CrudGetSource()
	o := collect(opts)

	if err := e.CrudBeforeSave(false); err != nil {
		return e, m.fail("update", source, err)
	}

	row, err := e.CrudColumns().Project(e)
	if err != nil {
		return e, m.fail("update", source, err)
	}

	ok, err := m.driver.Update(ctx, source, conds, row, conditions.Compile(conds, o.conditionsQuery))
	if err != nil {
		return e, m.fail("update", source, err)
	}
	if !ok {
		return e, m.fail("update", source, ErrNotSaved)
	}

	if err := e.CrudAfterSave(false); err != nil {
		return e, m.fail("update", source, err)
	}

	log.Debug("entity updated", "source", source)
	return e, nil
}

// Delete removes the rows of source matching conds and returns the
// driver's result unchanged.
func (m *CrudManager[E]) Delete(ctx context.Context, source string, conds *conditions.Set, opts ...Option) (bool, error) {
	o := collect(opts)

	ok, err := m.driver.Delete(ctx, source, conds, conditions.Compile(conds, o.conditionsQuery))
	if err != nil {
		return false, m.fail("delete", source, err)
	}
	return ok, nil
}

func (m *CrudManager[E]) fail(op, source string, err error) error {
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotSaved) {
		log.Warn("operation failed", "op", op, "source", source, "error", err)
	}
	return &OperationError{Operation: op, Source: source, Cause: err}
}
