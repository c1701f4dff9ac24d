package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
	"github.com/satishbabariya/sqlcrud/query/columns"
	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/client"
	"github.com/satishbabariya/sqlcrud/runtime/client/clienttest"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type user struct {
	Base

	ID     int64
	Email  string
	Name   string
	Status string

	events    []string
	failHooks bool
}

var userColumns = columns.NewColumnMap(
	columns.Bind("id", "id",
		func(u *user) *int64 {
			if u.ID == 0 {
				return nil
			}
			return &u.ID
		},
		func(u *user, v *int64) {
			if v != nil {
				u.ID = *v
			}
		}),
	columns.Bind("email", "email", func(u *user) string { return u.Email }, func(u *user, v string) { u.Email = v }),
	columns.Bind("name", "name", func(u *user) string { return u.Name }, func(u *user, v string) { u.Name = v }),
	columns.Bind("status", "status", func(u *user) string { return u.Status }, func(u *user, v string) { u.Status = v }),
)

func (u *user) CrudColumns() *columns.ColumnMap[*user] { return userColumns }
func (u *user) CrudGetSource() string                  { return "users" }

func (u *user) CrudBeforeSave(isCreate bool) error {
	if u.failHooks {
		return errors.New("hook refused")
	}
	if isCreate && u.Status == "" {
		u.Status = "new"
	}
	u.events = append(u.events, event("before", isCreate))
	return nil
}

func (u *user) CrudAfterSave(isCreate bool) error {
	u.events = append(u.events, event("after", isCreate))
	return nil
}

func (u *user) CrudClone() *user {
	c := *u
	c.events = nil
	return &c
}

func (u *user) SetID(id int64) { u.ID = id }

func event(stage string, isCreate bool) string {
	if isCreate {
		return stage + ":create"
	}
	return stage + ":update"
}

// activeUser reads through a custom query.
type activeUser struct {
	user
}

func (u *activeUser) CrudColumns() *columns.ColumnMap[*activeUser] { return activeColumns }
func (u *activeUser) CrudGetQuery() string {
	return "SELECT id, email FROM users WHERE status = 'active'"
}
func (u *activeUser) CrudClone() *activeUser {
	c := *u
	return &c
}

var activeColumns = columns.NewColumnMap(
	columns.Bind("id", "id", func(u *activeUser) int64 { return u.ID }, func(u *activeUser, v int64) { u.ID = v }),
	columns.Bind("email", "email", func(u *activeUser) string { return u.Email }, func(u *activeUser, v string) { u.Email = v }),
)

func setupManager(t *testing.T) (*CrudManager[*user], *client.Client, context.Context) {
	t.Helper()
	ctx := context.Background()

	c, err := client.Open(ctx, database.Config{Provider: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })

	_, err = c.ExecuteSQL(ctx, `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT ''
	)`)
	require.NoError(t, err)

	return NewCrudManager[*user](c), c, ctx
}

func TestCrudManager_Create(t *testing.T) {
	m, _, ctx := setupManager(t)

	u := &user{Email: "ann@x.io", Name: "Ann"}
	got, err := m.Create(ctx, u, false)
	require.NoError(t, err)
	assert.Same(t, u, got)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "new", u.Status)
	assert.Equal(t, []string{"before:create", "after:create"}, u.events)

	t.Run("ignored duplicate is not saved", func(t *testing.T) {
		dup := &user{Email: "ann@x.io"}
		_, err := m.Create(ctx, dup, true)
		assert.ErrorIs(t, err, ErrNotSaved)
		assert.True(t, IsNotSaved(err))
		assert.Zero(t, dup.ID)
		assert.Equal(t, []string{"before:create"}, dup.events)
	})

	t.Run("driver error propagates", func(t *testing.T) {
		dup := &user{Email: "ann@x.io"}
		_, err := m.Create(ctx, dup, false)
		require.Error(t, err)
		assert.False(t, IsNotSaved(err))

		var opErr *OperationError
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, "create", opErr.Operation)
		assert.Equal(t, "users", opErr.Source)

		var qErr *client.QueryError
		assert.True(t, errors.As(err, &qErr))
		assert.Equal(t, []string{"before:create"}, dup.events)
	})
}

func TestCrudManager_Read(t *testing.T) {
	m, _, ctx := setupManager(t)
	for _, u := range []*user{
		{Email: "ann@x.io", Name: "Ann", Status: "active"},
		{Email: "bob@x.io", Name: "Bob", Status: "active"},
		{Email: "cid@x.io", Name: "Cid", Status: "banned"},
	} {
		_, err := m.Create(ctx, u, false)
		require.NoError(t, err)
	}

	t.Run("populates in place", func(t *testing.T) {
		u := &user{}
		got, err := m.Read(ctx, u, conditions.New().Add("email", "bob@x.io"))
		require.NoError(t, err)
		assert.Same(t, u, got)
		assert.Equal(t, int64(2), u.ID)
		assert.Equal(t, "Bob", u.Name)
		assert.Equal(t, "active", u.Status)
	})

	t.Run("sequence condition and sort", func(t *testing.T) {
		u := &user{}
		_, err := m.Read(ctx, u, conditions.New().Add("id", []int64{1, 3}), WithSortBy("id DESC"))
		require.NoError(t, err)
		assert.Equal(t, "Cid", u.Name)
	})

	t.Run("conditions override", func(t *testing.T) {
		u := &user{}
		_, err := m.Read(ctx, u, conditions.New().Add("id", 1), WithConditionsQuery("id > :id"), WithSortBy("id"))
		require.NoError(t, err)
		assert.Equal(t, "Bob", u.Name)
	})

	t.Run("not found", func(t *testing.T) {
		u := &user{Name: "untouched"}
		_, err := m.Read(ctx, u, conditions.New().Add("id", 99))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "untouched", u.Name)
	})
}

func TestCrudManager_ReadMany(t *testing.T) {
	m, c, ctx := setupManager(t)
	for _, u := range []*user{
		{Email: "ann@x.io", Name: "Ann", Status: "active"},
		{Email: "bob@x.io", Name: "Bob", Status: "active"},
		{Email: "cid@x.io", Name: "Cid", Status: "banned"},
	} {
		_, err := m.Create(ctx, u, false)
		require.NoError(t, err)
	}

	t.Run("distinct instances", func(t *testing.T) {
		template := &user{Name: "template"}
		got, err := m.ReadMany(ctx, template, conditions.New(), WithSortBy("id"))
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "template", template.Name)
		for i := range got {
			assert.NotSame(t, template, got[i])
			for j := i + 1; j < len(got); j++ {
				assert.NotSame(t, got[i], got[j])
			}
		}

		got[0].Name = "changed"
		assert.Equal(t, "Bob", got[1].Name)
	})

	t.Run("with conditions", func(t *testing.T) {
		got, err := m.ReadMany(ctx, &user{}, conditions.New().Add("status", "active"), WithSortBy("name DESC"))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Bob", got[0].Name)
		assert.Equal(t, "Ann", got[1].Name)
	})

	t.Run("empty result", func(t *testing.T) {
		_, err := m.ReadMany(ctx, &user{}, conditions.New().Add("status", []string{}))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("custom query", func(t *testing.T) {
		am := NewCrudManager[*activeUser](c)
		got, err := am.ReadMany(ctx, &activeUser{}, nil, WithSortBy("id"))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ann@x.io", got[0].Email)
		assert.Empty(t, got[0].Name)
	})
}

func TestCrudManager_Update(t *testing.T) {
	m, _, ctx := setupManager(t)
	u := &user{Email: "ann@x.io", Name: "Ann"}
	_, err := m.Create(ctx, u, false)
	require.NoError(t, err)

	u.events = nil
	u.Name = "Annie"
	_, err = m.Update(ctx, u, conditions.New().Add("id", u.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{"before:update", "after:update"}, u.events)

	fresh := &user{}
	_, err = m.Read(ctx, fresh, conditions.New().Add("id", u.ID))
	require.NoError(t, err)
	assert.Equal(t, "Annie", fresh.Name)

	t.Run("no matching row", func(t *testing.T) {
		ghost := &user{ID: 42, Email: "ghost@x.io"}
		_, err := m.Update(ctx, ghost, conditions.New().Add("id", 42))
		assert.ErrorIs(t, err, ErrNotSaved)
		assert.Equal(t, []string{"before:update"}, ghost.events)
	})

	t.Run("hook error aborts", func(t *testing.T) {
		u.failHooks = true
		defer func() { u.failHooks = false }()
		_, err := m.Update(ctx, u, conditions.New().Add("id", u.ID))
		assert.EqualError(t, err, "update users: hook refused")
	})
}

func TestCrudManager_Delete(t *testing.T) {
	m, _, ctx := setupManager(t)
	_, err := m.Create(ctx, &user{Email: "ann@x.io"}, false)
	require.NoError(t, err)

	ok, err := m.Delete(ctx, "users", conditions.New().Add("email", "ann@x.io"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Delete(ctx, "users", conditions.New().Add("email", "ann@x.io"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCrudManager_WithMockDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("failed create skips the after hook", func(t *testing.T) {
		driver := new(clienttest.MockDriver)
		driver.On("Insert", ctx, "users", mock.Anything, false).Return(client.InsertResult{}, nil)

		u := &user{Email: "a@x.io"}
		_, err := NewCrudManager[*user](driver).Create(ctx, u, false)
		assert.ErrorIs(t, err, ErrNotSaved)
		assert.Equal(t, []string{"before:create"}, u.events)
	})

	t.Run("insert without generated id", func(t *testing.T) {
		driver := new(clienttest.MockDriver)
		driver.On("Insert", ctx, "users", mock.Anything, true).Return(client.InsertResult{RowsAffected: 1}, nil)

		u := &user{Email: "a@x.io"}
		_, err := NewCrudManager[*user](driver).Create(ctx, u, true)
		require.NoError(t, err)
		assert.Zero(t, u.ID)
		assert.Equal(t, []string{"before:create", "after:create"}, u.events)
	})

	t.Run("projected row", func(t *testing.T) {
		driver := new(clienttest.MockDriver)
		driver.On("Insert", ctx, "users", mock.MatchedBy(func(row *types.Row) bool {
			return assert.ObjectsAreEqual([]string{"id", "email", "name", "status"}, row.Columns()) &&
				assert.ObjectsAreEqual([]interface{}{(*int64)(nil), "a@x.io", "A", "new"}, row.Values())
		}), false).Return(client.InsertResult{ID: 9, HasID: true, RowsAffected: 1}, nil)

		u := &user{Email: "a@x.io", Name: "A"}
		_, err := NewCrudManager[*user](driver).Create(ctx, u, false)
		require.NoError(t, err)
		assert.Equal(t, int64(9), u.ID)
		driver.AssertExpectations(t)
	})

	t.Run("before hook error skips the driver", func(t *testing.T) {
		driver := new(clienttest.MockDriver)
		_, err := NewCrudManager[*user](driver).Create(ctx, &user{failHooks: true}, false)
		assert.EqualError(t, err, "create users: hook refused")
		driver.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("read compiles conditions", func(t *testing.T) {
		conds := conditions.New().Add("id", 5)
		driver := new(clienttest.MockDriver)
		driver.On("FetchRow", ctx, "SELECT * FROM users WHERE id = :id", conds).
			Return(types.NewRow().Set("id", int64(5)).Set("name", "Five").Set("extra", 1), nil)

		u, err := NewCrudManager[*user](driver).Read(ctx, &user{}, conds)
		require.NoError(t, err)
		assert.Equal(t, int64(5), u.ID)
		assert.Equal(t, "Five", u.Name)
	})

	t.Run("read many without conditions has no WHERE", func(t *testing.T) {
		boom := errors.New("boom")
		driver := new(clienttest.MockDriver)
		driver.On("FetchRowManyCursor", ctx, "SELECT * FROM users", mock.Anything).Return(nil, boom)

		_, err := NewCrudManager[*user](driver).ReadMany(ctx, &user{}, conditions.New())
		assert.ErrorIs(t, err, boom)
		driver.AssertExpectations(t)
	})

	t.Run("read many appends WHERE to a custom query", func(t *testing.T) {
		conds := conditions.New().Add("id", []int{1, 2, 3})
		driver := new(clienttest.MockDriver)
		driver.On("FetchRowManyCursor", ctx,
			"SELECT id, email FROM users WHERE status = 'active' WHERE id IN (:id) ORDER BY id", conds).
			Return(nil, client.ErrNotFound)

		_, err := NewCrudManager[*activeUser](driver).ReadMany(ctx, &activeUser{}, conds, WithSortBy("id"))
		assert.ErrorIs(t, err, ErrNotFound)
		driver.AssertExpectations(t)
	})

	t.Run("delete returns the driver result", func(t *testing.T) {
		conds := conditions.New().Add("id", 1)
		driver := new(clienttest.MockDriver)
		driver.On("Delete", ctx, "users", conds, "id = :id").Return(false, nil)

		ok, err := NewCrudManager[*user](driver).Delete(ctx, "users", conds)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("mapping error", func(t *testing.T) {
		driver := new(clienttest.MockDriver)
		driver.On("FetchRow", ctx, mock.Anything, mock.Anything).
			Return(types.NewRow().Set("id", "not-a-number"), nil)

		_, err := NewCrudManager[*user](driver).Read(ctx, &user{}, conditions.New().Add("id", 1))
		var mErr *columns.MappingError
		assert.True(t, errors.As(err, &mErr))
	})
}
