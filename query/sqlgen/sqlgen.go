// Package sqlgen generates parameterized statements for different database providers.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlcrud/query/conditions"
	"github.com/satishbabariya/sqlcrud/runtime/types"
)

var (
	// ErrUnsupported is returned for statements the dialect cannot express.
	ErrUnsupported = errors.New("statement not supported by dialect")

	// ErrEmptyRow is returned when a write has no columns or no rows.
	ErrEmptyRow = errors.New("no data to write")

	// ErrRowShape is returned when the rows of a multi-row write differ in columns.
	ErrRowShape = errors.New("rows do not share the same columns")

	// ErrMissingConditions is returned when an update or delete has no condition fragment.
	ErrMissingConditions = errors.New("update and delete require conditions")
)

// Dialect identifies a SQL dialect.
type Dialect string

const (
	// PostgreSQL dialect.
	PostgreSQL Dialect = "postgres"
	// MySQL dialect.
	MySQL Dialect = "mysql"
	// SQLite dialect.
	SQLite Dialect = "sqlite"
)

// Query represents a SQL query with arguments
type Query struct {
	SQL  string
	Args []interface{}
}

// Generator generates SQL for a specific provider
type Generator interface {
	// Dialect returns the dialect the generator targets.
	Dialect() Dialect
	// Bind rewrites named parameters of a hand-written query.
	Bind(query string, params *conditions.Set) (*Query, error)
	// Insert builds a single-row insert. returning names a column to return
	// when the dialect supports RETURNING; empty means none.
	Insert(table string, row *types.Row, ignore bool, returning string) (*Query, error)
	// InsertMany builds a multi-row insert.
	InsertMany(table string, rows []*types.Row, ignore bool) (*Query, error)
	// Replace builds a single-row replace.
	Replace(table string, row *types.Row) (*Query, error)
	// ReplaceMany builds a multi-row replace.
	ReplaceMany(table string, rows []*types.Row) (*Query, error)
	// Update builds an update of row's columns filtered by fragment.
	Update(table string, params *conditions.Set, row *types.Row, fragment string) (*Query, error)
	// Delete builds a delete filtered by fragment.
	Delete(table string, params *conditions.Set, fragment string) (*Query, error)
}

// NewGenerator creates a new SQL generator for the given provider
func NewGenerator(provider string) Generator {
	switch provider {
	case "postgresql", "postgres":
		return &PostgresGenerator{}
	case "mysql":
		return &MySQLGenerator{}
	case "sqlite", "sqlite3":
		return &SQLiteGenerator{}
	default:
		return &PostgresGenerator{} // default to postgres
	}
}

// base holds the statement shapes shared by all dialects.
type base struct {
	numbered bool
	// backslashEscapes marks dialects where a backslash escapes the next
	// character inside string literals.
	backslashEscapes bool
}

func (g base) binder() *binder {
	return &binder{numbered: g.numbered, backslashEscapes: g.backslashEscapes}
}

func (g base) Bind(query string, params *conditions.Set) (*Query, error) {
	b := g.binder()
	sql, err := b.bindNamed(query, params)
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql, Args: b.args}, nil
}

// values renders "(c1, c2) VALUES (?, ?), (?, ?)" for rows sharing the
// columns of the first row.
func (g base) values(b *binder, rows []*types.Row) (string, error) {
	if len(rows) == 0 || rows[0].Len() == 0 {
		return "", ErrEmptyRow
	}
	cols := rows[0].Columns()

	tuples := make([]string, len(rows))
	for i, row := range rows {
		if row.Len() != len(cols) {
			return "", fmt.Errorf("row %d: %w", i, ErrRowShape)
		}
		ph := make([]string, len(cols))
		for j, c := range cols {
			v, ok := row.Get(c)
			if !ok {
				return "", fmt.Errorf("row %d: missing column %s: %w", i, c, ErrRowShape)
			}
			ph[j] = b.next(v)
		}
		tuples[i] = "(" + strings.Join(ph, ", ") + ")"
	}

	return fmt.Sprintf("(%s) VALUES %s", strings.Join(cols, ", "), strings.Join(tuples, ", ")), nil
}

func (g base) write(verb, table string, rows []*types.Row, suffix string) (*Query, error) {
	b := g.binder()
	vals, err := g.values(b, rows)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf("%s %s %s", verb, table, vals)
	if suffix != "" {
		sql += " " + suffix
	}
	return &Query{SQL: sql, Args: b.args}, nil
}

func (g base) Update(table string, params *conditions.Set, row *types.Row, fragment string) (*Query, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, ErrMissingConditions
	}
	if row.Len() == 0 {
		return nil, ErrEmptyRow
	}

	b := g.binder()
	sets := make([]string, 0, row.Len())
	for col, v := range row.All() {
		sets = append(sets, col+" = "+b.next(v))
	}

	where, err := b.bindNamed(fragment, params)
	if err != nil {
		return nil, err
	}

	return &Query{
		SQL:  fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where),
		Args: b.args,
	}, nil
}

func (g base) Delete(table string, params *conditions.Set, fragment string) (*Query, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, ErrMissingConditions
	}

	b := g.binder()
	where, err := b.bindNamed(fragment, params)
	if err != nil {
		return nil, err
	}

	return &Query{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s", table, where),
		Args: b.args,
	}, nil
}

// PostgresGenerator generates PostgreSQL SQL
type PostgresGenerator struct{}

func (g *PostgresGenerator) base() base { return base{numbered: true} }

func (g *PostgresGenerator) Dialect() Dialect { return PostgreSQL }

func (g *PostgresGenerator) Bind(query string, params *conditions.Set) (*Query, error) {
	return g.base().Bind(query, params)
}

func (g *PostgresGenerator) Insert(table string, row *types.Row, ignore bool, returning string) (*Query, error) {
	var suffix []string
	if ignore {
		suffix = append(suffix, "ON CONFLICT DO NOTHING")
	}
	if returning != "" {
		suffix = append(suffix, "RETURNING "+returning)
	}
	return g.base().write("INSERT INTO", table, []*types.Row{row}, strings.Join(suffix, " "))
}

func (g *PostgresGenerator) InsertMany(table string, rows []*types.Row, ignore bool) (*Query, error) {
	suffix := ""
	if ignore {
		suffix = "ON CONFLICT DO NOTHING"
	}
	return g.base().write("INSERT INTO", table, rows, suffix)
}

// Replace is not available on PostgreSQL; an upsert needs conflict columns.
func (g *PostgresGenerator) Replace(table string, row *types.Row) (*Query, error) {
	return nil, fmt.Errorf("replace into %s: %w", table, ErrUnsupported)
}

func (g *PostgresGenerator) ReplaceMany(table string, rows []*types.Row) (*Query, error) {
	return nil, fmt.Errorf("replace into %s: %w", table, ErrUnsupported)
}

func (g *PostgresGenerator) Update(table string, params *conditions.Set, row *types.Row, fragment string) (*Query, error) {
	return g.base().Update(table, params, row, fragment)
}

func (g *PostgresGenerator) Delete(table string, params *conditions.Set, fragment string) (*Query, error) {
	return g.base().Delete(table, params, fragment)
}

// MySQLGenerator generates MySQL SQL
type MySQLGenerator struct{}

func (g *MySQLGenerator) base() base { return base{backslashEscapes: true} }

func (g *MySQLGenerator) Dialect() Dialect { return MySQL }

func (g *MySQLGenerator) Bind(query string, params *conditions.Set) (*Query, error) {
	return g.base().Bind(query, params)
}

func (g *MySQLGenerator) Insert(table string, row *types.Row, ignore bool, returning string) (*Query, error) {
	return g.InsertMany(table, []*types.Row{row}, ignore)
}

func (g *MySQLGenerator) InsertMany(table string, rows []*types.Row, ignore bool) (*Query, error) {
	verb := "INSERT INTO"
	if ignore {
		verb = "INSERT IGNORE INTO"
	}
	return g.base().write(verb, table, rows, "")
}

func (g *MySQLGenerator) Replace(table string, row *types.Row) (*Query, error) {
	return g.ReplaceMany(table, []*types.Row{row})
}

func (g *MySQLGenerator) ReplaceMany(table string, rows []*types.Row) (*Query, error) {
	return g.base().write("REPLACE INTO", table, rows, "")
}

func (g *MySQLGenerator) Update(table string, params *conditions.Set, row *types.Row, fragment string) (*Query, error) {
	return g.base().Update(table, params, row, fragment)
}

func (g *MySQLGenerator) Delete(table string, params *conditions.Set, fragment string) (*Query, error) {
	return g.base().Delete(table, params, fragment)
}

// SQLiteGenerator generates SQLite SQL
type SQLiteGenerator struct{}

func (g *SQLiteGenerator) base() base { return base{} }

func (g *SQLiteGenerator) Dialect() Dialect { return SQLite }

func (g *SQLiteGenerator) Bind(query string, params *conditions.Set) (*Query, error) {
	return g.base().Bind(query, params)
}

func (g *SQLiteGenerator) Insert(table string, row *types.Row, ignore bool, returning string) (*Query, error) {
	return g.InsertMany(table, []*types.Row{row}, ignore)
}

func (g *SQLiteGenerator) InsertMany(table string, rows []*types.Row, ignore bool) (*Query, error) {
	verb := "INSERT INTO"
	if ignore {
		verb = "INSERT OR IGNORE INTO"
	}
	return g.base().write(verb, table, rows, "")
}

func (g *SQLiteGenerator) Replace(table string, row *types.Row) (*Query, error) {
	return g.ReplaceMany(table, []*types.Row{row})
}

func (g *SQLiteGenerator) ReplaceMany(table string, rows []*types.Row) (*Query, error) {
	return g.base().write("REPLACE INTO", table, rows, "")
}

func (g *SQLiteGenerator) Update(table string, params *conditions.Set, row *types.Row, fragment string) (*Query, error) {
	return g.base().Update(table, params, row, fragment)
}

func (g *SQLiteGenerator) Delete(table string, params *conditions.Set, fragment string) (*Query, error) {
	return g.base().Delete(table, params, fragment)
}
