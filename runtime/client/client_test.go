package client

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
	"github.com/satishbabariya/sqlcrud/internal/debug"
	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/query/sqlgen"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schema = `CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	name TEXT,
	age INTEGER
)`

func setupClient(t *testing.T) (*Client, context.Context) {
	t.Helper()
	ctx := context.Background()

	c, err := Open(ctx, database.Config{Provider: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })

	_, err = c.ExecuteSQL(ctx, schema)
	require.NoError(t, err)
	return c, ctx
}

func user(email, name string, age int) *types.Row {
	return types.NewRow().Set("email", email).Set("name", name).Set("age", age)
}

func TestClient_GetRowCount(t *testing.T) {
	c := New(nil, database.SQLite)
	_, err := c.GetRowCount()
	assert.ErrorIs(t, err, ErrNoRowCount)
}

func TestClient_Insert(t *testing.T) {
	c, ctx := setupClient(t)

	res, err := c.Insert(ctx, "users", user("a@x.io", "Ann", 30), false)
	require.NoError(t, err)
	assert.True(t, res.Inserted())
	assert.True(t, res.HasID)
	assert.Equal(t, int64(1), res.ID)

	t.Run("ignored duplicate has no id", func(t *testing.T) {
		res, err := c.Insert(ctx, "users", user("a@x.io", "Ann", 31), true)
		require.NoError(t, err)
		assert.False(t, res.Inserted())
		assert.False(t, res.HasID)

		n, err := c.GetRowCount()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("duplicate without ignore fails", func(t *testing.T) {
		_, err := c.Insert(ctx, "users", user("a@x.io", "Ann", 31), false)
		var qErr *QueryError
		require.True(t, errors.As(err, &qErr))
		assert.Equal(t, "insert", qErr.Operation)
		assert.Equal(t, "users", qErr.Table)
	})

	t.Run("many", func(t *testing.T) {
		res, err := c.InsertMany(ctx, "users", []*types.Row{
			user("b@x.io", "Bob", 20),
			user("c@x.io", "Cid", 40),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.RowsAffected)
		assert.False(t, res.HasID)
	})

	t.Run("replace", func(t *testing.T) {
		res, err := c.Replace(ctx, "users", types.NewRow().Set("id", 1).Set("email", "a@x.io").Set("name", "Anne").Set("age", 30))
		require.NoError(t, err)
		assert.True(t, res.Inserted())

		name, err := c.FetchColumn(ctx, "SELECT name FROM users WHERE id = :id", conditions.New().Add("id", 1))
		require.NoError(t, err)
		assert.Equal(t, "Anne", name)
	})
}

func TestClient_UpdateDelete(t *testing.T) {
	c, ctx := setupClient(t)
	_, err := c.InsertMany(ctx, "users", []*types.Row{
		user("a@x.io", "Ann", 30),
		user("b@x.io", "Bob", 20),
	}, false)
	require.NoError(t, err)

	conds := conditions.New().Add("email", "a@x.io")
	frag := conditions.Compile(conds, nil)

	ok, err := c.Update(ctx, "users", conds, types.NewRow().Set("name", "Ann B"), frag)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("unchanged values still count as matched", func(t *testing.T) {
		ok, err := c.Update(ctx, "users", conds, types.NewRow().Set("name", "Ann B"), frag)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no match", func(t *testing.T) {
		none := conditions.New().Add("email", "zz@x.io")
		ok, err := c.Update(ctx, "users", none, types.NewRow().Set("name", "x"), conditions.Compile(none, nil))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("condition column also updated", func(t *testing.T) {
		ok, err := c.Update(ctx, "users", conds, types.NewRow().Set("email", "ann@x.io"), frag)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing fragment", func(t *testing.T) {
		_, err := c.Update(ctx, "users", conds, types.NewRow().Set("name", "x"), "")
		assert.ErrorIs(t, err, ErrMissingConditions)
		_, err = c.Delete(ctx, "users", conds, "")
		assert.ErrorIs(t, err, ErrMissingConditions)
	})

	t.Run("delete with IN", func(t *testing.T) {
		in := conditions.New().Add("email", []string{"ann@x.io", "b@x.io"})
		ok, err := c.Delete(ctx, "users", in, conditions.Compile(in, nil))
		require.NoError(t, err)
		assert.True(t, ok)

		n, err := c.GetRowCount()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ok, err = c.Delete(ctx, "users", in, conditions.Compile(in, nil))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestClient_Fetch(t *testing.T) {
	c, ctx := setupClient(t)
	_, err := c.InsertMany(ctx, "users", []*types.Row{
		user("a@x.io", "Ann", 30),
		user("b@x.io", "Bob", 20),
		user("c@x.io", "Cid", 40),
	}, false)
	require.NoError(t, err)

	t.Run("row", func(t *testing.T) {
		row, err := c.FetchRow(ctx, "SELECT * FROM users WHERE email = :email", conditions.New().Add("email", "b@x.io"))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "email", "name", "age"}, row.Columns())
		name, _ := row.Get("name")
		assert.Equal(t, "Bob", name)
		age, _ := row.Get("age")
		assert.Equal(t, int64(20), age)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.FetchRow(ctx, "SELECT * FROM users WHERE id = :id", conditions.New().Add("id", 99))
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = c.FetchRowMany(ctx, "SELECT * FROM users WHERE id IN (:id)", conditions.New().Add("id", []int{}))
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = c.FetchColumn(ctx, "SELECT name FROM users WHERE id = :id", conditions.New().Add("id", 99))
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = c.FetchColumnMany(ctx, "SELECT name FROM users WHERE id = :id", conditions.New().Add("id", 99))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("many with IN", func(t *testing.T) {
		rows, err := c.FetchRowMany(ctx, "SELECT * FROM users WHERE age IN (:age) ORDER BY age", conditions.New().Add("age", []int{30, 40}))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		email, _ := rows[1].Get("email")
		assert.Equal(t, "c@x.io", email)

		n, err := c.GetRowCount()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("columns", func(t *testing.T) {
		names, err := c.FetchColumnMany(ctx, "SELECT name FROM users ORDER BY name DESC", nil)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"Cid", "Bob", "Ann"}, names)
	})

	t.Run("missing parameter", func(t *testing.T) {
		_, err := c.FetchRow(ctx, "SELECT * FROM users WHERE id = :id", nil)
		var missing *sqlgen.MissingParamError
		assert.True(t, errors.As(err, &missing))
	})
}

func TestClient_Cursor(t *testing.T) {
	c, ctx := setupClient(t)
	_, err := c.InsertMany(ctx, "users", []*types.Row{
		user("a@x.io", "Ann", 30),
		user("b@x.io", "Bob", 20),
		user("c@x.io", "Cid", 40),
	}, false)
	require.NoError(t, err)

	t.Run("drains lazily", func(t *testing.T) {
		cur, err := c.FetchRowManyCursor(ctx, "SELECT * FROM users ORDER BY id", nil)
		require.NoError(t, err)

		var emails []string
		for cur.Next() {
			v, _ := cur.Value().Get("email")
			emails = append(emails, v.(string))
		}
		require.NoError(t, cur.Err())
		assert.Equal(t, []string{"a@x.io", "b@x.io", "c@x.io"}, emails)

		assert.False(t, cur.Next())
		assert.NoError(t, cur.Close())
		assert.NoError(t, cur.Close())
	})

	t.Run("early break releases the connection", func(t *testing.T) {
		cur, err := c.FetchColumnManyCursor(ctx, "SELECT email FROM users ORDER BY id", nil)
		require.NoError(t, err)
		for v := range cur.All() {
			assert.Equal(t, "a@x.io", v)
			break
		}

		// The pool holds a single connection; this would block if the
		// cursor still held it.
		n, err := c.FetchColumn(ctx, "SELECT COUNT(*) FROM users", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("empty cursor", func(t *testing.T) {
		cur, err := c.FetchRowManyCursor(ctx, "SELECT * FROM users WHERE id = :id", conditions.New().Add("id", 0))
		require.NoError(t, err)
		out, err := cur.Collect()
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestClient_WithConn(t *testing.T) {
	c, ctx := setupClient(t)

	tx, err := c.Begin(ctx)
	require.NoError(t, err)

	txc := c.WithConn(tx)
	_, err = txc.Insert(ctx, "users", user("t@x.io", "Tx", 1), false)
	require.NoError(t, err)
	_, err = txc.FetchRow(ctx, "SELECT * FROM users WHERE email = :email", conditions.New().Add("email", "t@x.io"))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	_, err = c.FetchRow(ctx, "SELECT * FROM users WHERE email = :email", conditions.New().Add("email", "t@x.io"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Middleware(t *testing.T) {
	c, ctx := setupClient(t)

	var order []string
	var timed []string
	c.Use(
		func(ctx context.Context, event *QueryEvent, next func() error) error {
			order = append(order, "first:"+event.Operation)
			return next()
		},
		TimingMiddleware(func(query string, d time.Duration) {
			timed = append(timed, query)
		}),
	)

	_, err := c.ExecuteSQL(ctx, "DELETE FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"first:execute"}, order)
	assert.Equal(t, []string{"DELETE FROM users"}, timed)
}

func TestClient_FailureLogging(t *testing.T) {
	c, ctx := setupClient(t)

	var buf bytes.Buffer
	debug.SetOutput(&buf)
	defer debug.SetOutput(os.Stderr)

	_, err := c.ExecuteSQL(ctx, "DELETE FROM missing")
	require.Error(t, err)
	assert.Empty(t, buf.String())

	debug.Init(true)
	defer debug.Init(false)

	_, err = c.ExecuteSQL(ctx, "DELETE FROM missing")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "statement failed")
}
