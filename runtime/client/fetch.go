package client

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/types"
)

// FetchRow returns the first row of query.
func (c *Client) FetchRow(ctx context.Context, query string, params *conditions.Set) (*types.Row, error) {
	cur, err := c.FetchRowManyCursor(ctx, query, params)
	if err != nil {
		return nil, err
	}
	defer cur.Close()
	return first(cur)
}

// FetchRowMany returns every row of query.
func (c *Client) FetchRowMany(ctx context.Context, query string, params *conditions.Set) ([]*types.Row, error) {
	cur, err := c.FetchRowManyCursor(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return collect(cur)
}

// FetchRowManyCursor streams the rows of query.
func (c *Client) FetchRowManyCursor(ctx context.Context, query string, params *conditions.Set) (*Cursor[*types.Row], error) {
	rows, err := c.open(ctx, query, params)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, wrap("fetch", "", query, err)
	}
	return newCursor(rows, func(rows *sql.Rows) (*types.Row, error) {
		return scanRow(rows, cols)
	}, c.setRowCount), nil
}

// FetchColumn returns the first column of the first row of query.
func (c *Client) FetchColumn(ctx context.Context, query string, params *conditions.Set) (interface{}, error) {
	cur, err := c.FetchColumnManyCursor(ctx, query, params)
	if err != nil {
		return nil, err
	}
	defer cur.Close()
	return first(cur)
}

// FetchColumnMany returns the first column of every row of query.
func (c *Client) FetchColumnMany(ctx context.Context, query string, params *conditions.Set) ([]interface{}, error) {
	cur, err := c.FetchColumnManyCursor(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return collect(cur)
}

// FetchColumnManyCursor streams the first column of every row of query.
func (c *Client) FetchColumnManyCursor(ctx context.Context, query string, params *conditions.Set) (*Cursor[interface{}], error) {
	rows, err := c.open(ctx, query, params)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, wrap("fetch", "", query, err)
	}
	return newCursor(rows, func(rows *sql.Rows) (interface{}, error) {
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		return row.Values()[0], nil
	}, c.setRowCount), nil
}

func (c *Client) open(ctx context.Context, query string, params *conditions.Set) (*sql.Rows, error) {
	q, err := c.gen.Bind(query, params)
	if err != nil {
		return nil, wrap("fetch", "", query, err)
	}
	return c.query(ctx, "fetch", "", q)
}

func first[T any](cur *Cursor[T]) (T, error) {
	var zero T
	if !cur.Next() {
		if err := cur.Err(); err != nil {
			return zero, err
		}
		return zero, ErrNotFound
	}
	return cur.Value(), nil
}

func collect[T any](cur *Cursor[T]) ([]T, error) {
	out, err := cur.Collect()
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// scanRow reads the current row. Text returned as []byte becomes string.
func scanRow(rows *sql.Rows, cols []string) (*types.Row, error) {
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := types.NewRow()
	for i, col := range cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row.Set(col, v)
	}
	return row, nil
}
