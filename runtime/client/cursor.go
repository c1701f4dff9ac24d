package client

import (
	"database/sql"
	"iter"
)

// Cursor streams query results one row at a time. It is single-pass and
// owned by one goroutine. A cursor closes itself when exhausted or on the
// first error; callers that stop early must call Close.
type Cursor[T any] struct {
	rows    *sql.Rows
	scan    func(*sql.Rows) (T, error)
	onClose func(n int64)

	current T
	count   int64
	err     error
	closed  bool
}

func newCursor[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error), onClose func(int64)) *Cursor[T] {
	return &Cursor[T]{rows: rows, scan: scan, onClose: onClose}
}

// Next advances to the next row.
func (c *Cursor[T]) Next() bool {
	if c.closed {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		c.Close()
		return false
	}
	v, err := c.scan(c.rows)
	if err != nil {
		c.err = err
		c.Close()
		return false
	}
	c.current = v
	c.count++
	return true
}

// Value returns the row loaded by the last successful Next.
func (c *Cursor[T]) Value() T {
	return c.current
}

// Err returns the error that stopped iteration, if any.
func (c *Cursor[T]) Err() error {
	return c.err
}

// Close releases the underlying result set. It is safe to call more than once.
func (c *Cursor[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.rows.Close()
	if c.onClose != nil {
		c.onClose(c.count)
	}
	if c.err == nil {
		c.err = err
	}
	return err
}

// All yields the remaining rows. Breaking out of the loop closes the cursor.
func (c *Cursor[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer c.Close()
		for c.Next() {
			if !yield(c.current) {
				return
			}
		}
	}
}

// Collect drains the cursor into a slice.
func (c *Cursor[T]) Collect() ([]T, error) {
	var out []T
	for v := range c.All() {
		out = append(out, v)
	}
	return out, c.Err()
}
