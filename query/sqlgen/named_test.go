package sqlgen

import (
	"errors"
	"testing"

	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	params := conditions.New().Add("id", 1).Add("tags", []string{"x", "y"})

	tests := []struct {
		name     string
		gen      Generator
		query    string
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "positional",
			gen:      &SQLiteGenerator{},
			query:    "SELECT * FROM t WHERE id = :id AND tag IN (:tags)",
			wantSQL:  "SELECT * FROM t WHERE id = ? AND tag IN (?, ?)",
			wantArgs: []interface{}{1, "x", "y"},
		},
		{
			name:     "numbered",
			gen:      &PostgresGenerator{},
			query:    "SELECT * FROM t WHERE tag IN (:tags) AND id = :id",
			wantSQL:  "SELECT * FROM t WHERE tag IN ($1, $2) AND id = $3",
			wantArgs: []interface{}{"x", "y", 1},
		},
		{
			name:     "repeated parameter",
			gen:      &PostgresGenerator{},
			query:    "SELECT :id, :id",
			wantSQL:  "SELECT $1, $2",
			wantArgs: []interface{}{1, 1},
		},
		{
			name:     "quotes comments and casts",
			gen:      &PostgresGenerator{},
			query:    "SELECT ':id', \"a:b\", x::int -- :id\nFROM t /* :tags */ WHERE id = :id",
			wantSQL:  "SELECT ':id', \"a:b\", x::int -- :id\nFROM t /* :tags */ WHERE id = $1",
			wantArgs: []interface{}{1},
		},
		{
			name:     "escaped quote",
			gen:      &MySQLGenerator{},
			query:    "SELECT 'it''s :id' WHERE id = :id",
			wantSQL:  "SELECT 'it''s :id' WHERE id = ?",
			wantArgs: []interface{}{1},
		},
		{
			name:     "sqlite backslash is literal",
			gen:      &SQLiteGenerator{},
			query:    `SELECT * FROM files WHERE path = 'C:\' AND id = :id`,
			wantSQL:  `SELECT * FROM files WHERE path = 'C:\' AND id = ?`,
			wantArgs: []interface{}{1},
		},
		{
			name:     "postgres backslash is literal",
			gen:      &PostgresGenerator{},
			query:    `SELECT * FROM files WHERE path = 'C:\' AND id = :id`,
			wantSQL:  `SELECT * FROM files WHERE path = 'C:\' AND id = $1`,
			wantArgs: []interface{}{1},
		},
		{
			name:     "mysql backslash escape",
			gen:      &MySQLGenerator{},
			query:    `SELECT 'it\'s :id', "a\":b" WHERE id = :id`,
			wantSQL:  `SELECT 'it\'s :id', "a\":b" WHERE id = ?`,
			wantArgs: []interface{}{1},
		},
		{
			name:    "bare colon",
			gen:     &SQLiteGenerator{},
			query:   "SELECT ': ' || 'x' WHERE 1 = 1 AND a = : ",
			wantSQL: "SELECT ': ' || 'x' WHERE 1 = 1 AND a = : ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.gen.Bind(tt.query, params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}

func TestBind_Errors(t *testing.T) {
	_, err := (&SQLiteGenerator{}).Bind("SELECT * FROM t WHERE id = :missing", conditions.New())
	var missing *MissingParamError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "missing", missing.Name)

	_, err = (&SQLiteGenerator{}).Bind("SELECT 'open", nil)
	assert.ErrorIs(t, err, ErrUnterminated)

	_, err = (&MySQLGenerator{}).Bind(`SELECT * FROM files WHERE path = 'C:\' AND id = :id`, conditions.New().Add("id", 5))
	assert.ErrorIs(t, err, ErrUnterminated)

	_, err = (&SQLiteGenerator{}).Bind("SELECT 1 /* open", nil)
	assert.ErrorIs(t, err, ErrUnterminated)
}
