// Package clienttest provides a mock client.Driver for tests.
package clienttest

import (
	"context"

	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/client"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/stretchr/testify/mock"
)

// MockDriver is a mock implementation of client.Driver
type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) Insert(ctx context.Context, table string, row *types.Row, ignore bool) (client.InsertResult, error) {
	args := m.Called(ctx, table, row, ignore)
	return args.Get(0).(client.InsertResult), args.Error(1)
}

func (m *MockDriver) InsertMany(ctx context.Context, table string, rows []*types.Row, ignore bool) (client.InsertResult, error) {
	args := m.Called(ctx, table, rows, ignore)
	return args.Get(0).(client.InsertResult), args.Error(1)
}

func (m *MockDriver) Replace(ctx context.Context, table string, row *types.Row) (client.InsertResult, error) {
	args := m.Called(ctx, table, row)
	return args.Get(0).(client.InsertResult), args.Error(1)
}

func (m *MockDriver) ReplaceMany(ctx context.Context, table string, rows []*types.Row) (client.InsertResult, error) {
	args := m.Called(ctx, table, rows)
	return args.Get(0).(client.InsertResult), args.Error(1)
}

func (m *MockDriver) Update(ctx context.Context, table string, conds *conditions.Set, row *types.Row, fragment string) (bool, error) {
	args := m.Called(ctx, table, conds, row, fragment)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriver) Delete(ctx context.Context, table string, conds *conditions.Set, fragment string) (bool, error) {
	args := m.Called(ctx, table, conds, fragment)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriver) FetchRow(ctx context.Context, query string, params *conditions.Set) (*types.Row, error) {
	args := m.Called(ctx, query, params)
	row, _ := args.Get(0).(*types.Row)
	return row, args.Error(1)
}

func (m *MockDriver) FetchRowMany(ctx context.Context, query string, params *conditions.Set) ([]*types.Row, error) {
	args := m.Called(ctx, query, params)
	rows, _ := args.Get(0).([]*types.Row)
	return rows, args.Error(1)
}

func (m *MockDriver) FetchRowManyCursor(ctx context.Context, query string, params *conditions.Set) (*client.Cursor[*types.Row], error) {
	args := m.Called(ctx, query, params)
	cur, _ := args.Get(0).(*client.Cursor[*types.Row])
	return cur, args.Error(1)
}

func (m *MockDriver) FetchColumn(ctx context.Context, query string, params *conditions.Set) (interface{}, error) {
	args := m.Called(ctx, query, params)
	return args.Get(0), args.Error(1)
}

func (m *MockDriver) FetchColumnMany(ctx context.Context, query string, params *conditions.Set) ([]interface{}, error) {
	args := m.Called(ctx, query, params)
	values, _ := args.Get(0).([]interface{})
	return values, args.Error(1)
}

func (m *MockDriver) FetchColumnManyCursor(ctx context.Context, query string, params *conditions.Set) (*client.Cursor[interface{}], error) {
	args := m.Called(ctx, query, params)
	cur, _ := args.Get(0).(*client.Cursor[interface{}])
	return cur, args.Error(1)
}

func (m *MockDriver) ExecuteSQL(ctx context.Context, query string) (bool, error) {
	args := m.Called(ctx, query)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriver) GetRowCount() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

var _ client.Driver = (*MockDriver)(nil)
