package client

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/query/sqlgen"
	"github.com/satishbabariya/sqlcrud/runtime/types"
)

// Insert writes one row. The generated key is reported when the database
// provides one and the row was actually written.
func (c *Client) Insert(ctx context.Context, table string, row *types.Row, ignore bool) (InsertResult, error) {
	if c.Dialect() == sqlgen.PostgreSQL && c.returning != "" {
		return c.insertReturning(ctx, table, row, ignore)
	}

	q, err := c.gen.Insert(table, row, ignore, "")
	if err != nil {
		return InsertResult{}, wrap("insert", table, "", err)
	}
	res, err := c.exec(ctx, "insert", table, q)
	if err != nil {
		return InsertResult{}, err
	}
	return insertResult(res, true), nil
}

func (c *Client) insertReturning(ctx context.Context, table string, row *types.Row, ignore bool) (InsertResult, error) {
	q, err := c.gen.Insert(table, row, ignore, c.returning)
	if err != nil {
		return InsertResult{}, wrap("insert", table, "", err)
	}
	rows, err := c.query(ctx, "insert", table, q)
	if err != nil {
		return InsertResult{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return InsertResult{}, wrap("insert", table, q.SQL, err)
		}
		// ON CONFLICT DO NOTHING skipped the row.
		c.setRowCount(0)
		return InsertResult{}, nil
	}

	var id sql.NullInt64
	if err := rows.Scan(&id); err != nil {
		return InsertResult{}, wrap("insert", table, q.SQL, err)
	}
	c.setRowCount(1)
	return InsertResult{ID: id.Int64, HasID: id.Valid, RowsAffected: 1}, nil
}

// InsertMany writes several rows sharing the same columns in one statement.
func (c *Client) InsertMany(ctx context.Context, table string, rows []*types.Row, ignore bool) (InsertResult, error) {
	q, err := c.gen.InsertMany(table, rows, ignore)
	if err != nil {
		return InsertResult{}, wrap("insert", table, "", err)
	}
	res, err := c.exec(ctx, "insert", table, q)
	if err != nil {
		return InsertResult{}, err
	}
	return insertResult(res, false), nil
}

// Replace writes one row, replacing any row with the same key.
func (c *Client) Replace(ctx context.Context, table string, row *types.Row) (InsertResult, error) {
	q, err := c.gen.Replace(table, row)
	if err != nil {
		return InsertResult{}, wrap("replace", table, "", err)
	}
	res, err := c.exec(ctx, "replace", table, q)
	if err != nil {
		return InsertResult{}, err
	}
	return insertResult(res, true), nil
}

// ReplaceMany writes several rows, replacing rows with the same keys.
func (c *Client) ReplaceMany(ctx context.Context, table string, rows []*types.Row) (InsertResult, error) {
	q, err := c.gen.ReplaceMany(table, rows)
	if err != nil {
		return InsertResult{}, wrap("replace", table, "", err)
	}
	res, err := c.exec(ctx, "replace", table, q)
	if err != nil {
		return InsertResult{}, err
	}
	return insertResult(res, false), nil
}

func insertResult(res sql.Result, single bool) InsertResult {
	var out InsertResult
	out.RowsAffected, _ = res.RowsAffected()
	if !single || out.RowsAffected == 0 {
		return out
	}
	if id, err := res.LastInsertId(); err == nil {
		out.ID, out.HasID = id, true
	}
	return out
}

// Update sets the columns of row on every row matching fragment.
func (c *Client) Update(ctx context.Context, table string, conds *conditions.Set, row *types.Row, fragment string) (bool, error) {
	q, err := c.gen.Update(table, conds, row, fragment)
	if err != nil {
		return false, wrap("update", table, fragment, err)
	}
	res, err := c.exec(ctx, "update", table, q)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes every row matching fragment.
func (c *Client) Delete(ctx context.Context, table string, conds *conditions.Set, fragment string) (bool, error) {
	q, err := c.gen.Delete(table, conds, fragment)
	if err != nil {
		return false, wrap("delete", table, fragment, err)
	}
	res, err := c.exec(ctx, "delete", table, q)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ExecuteSQL runs a statement without parameters.
func (c *Client) ExecuteSQL(ctx context.Context, query string) (bool, error) {
	if _, err := c.exec(ctx, "execute", "", &sqlgen.Query{SQL: query}); err != nil {
		return false, err
	}
	return true, nil
}
