// Package client provides the database/sql backed driver for the mapping layer.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database/factory"
	"github.com/satishbabariya/sqlcrud/internal/debug"
	"github.com/satishbabariya/sqlcrud/query/sqlgen"
)

var log = debug.Component("client")

// Client implements Driver over a database connection or transaction.
type Client struct {
	conn      database.Conn
	adapter   database.Adapter
	gen       sqlgen.Generator
	returning string

	middlewares []Middleware

	mu       sync.Mutex
	rowCount int64
	hasCount bool
}

// Option configures a Client.
type Option func(*Client)

// WithReturning names the generated key column fetched with RETURNING on
// PostgreSQL inserts.
func WithReturning(column string) Option {
	return func(c *Client) { c.returning = column }
}

// WithMiddleware adds statement middlewares.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(c *Client) { c.Use(middlewares...) }
}

// New creates a client over conn using the placeholder and statement
// syntax of dialect. Statements are logged through the debug logger.
func New(conn database.Conn, dialect database.SQLDialect, opts ...Option) *Client {
	c := &Client{
		conn:        conn,
		gen:         sqlgen.NewGenerator(string(dialect)),
		middlewares: []Middleware{LoggingMiddleware(log)},
	}
	if a, ok := conn.(database.Adapter); ok {
		c.adapter = a
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open creates the adapter for config, connects it and returns a client.
func Open(ctx context.Context, config database.Config, opts ...Option) (*Client, error) {
	adapter, err := factory.New(config)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect %s: %w", config.Provider, err)
	}

	opts = append([]Option{WithReturning(config.ReturningColumn)}, opts...)
	return New(adapter, adapter.GetDialect(), opts...), nil
}

// WithConn returns a client that runs statements on conn, typically a
// transaction owned by the caller. Dialect and middlewares are shared; the
// row count is not.
func (c *Client) WithConn(conn database.Conn) *Client {
	return &Client{
		conn:        conn,
		adapter:     c.adapter,
		gen:         c.gen,
		returning:   c.returning,
		middlewares: append([]Middleware(nil), c.middlewares...),
	}
}

// Begin starts a transaction on the underlying adapter.
func (c *Client) Begin(ctx context.Context) (database.Transaction, error) {
	if c.adapter == nil {
		return nil, errors.New("client has no adapter")
	}
	return c.adapter.Begin(ctx)
}

// Adapter returns the adapter the client was created from, if any.
func (c *Client) Adapter() database.Adapter {
	return c.adapter
}

// Dialect returns the SQL dialect.
func (c *Client) Dialect() database.SQLDialect {
	return c.gen.Dialect()
}

// Close disconnects the underlying adapter.
func (c *Client) Close(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Disconnect(ctx)
}

// GetRowCount returns the number of rows affected or returned by the last
// statement.
func (c *Client) GetRowCount() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasCount {
		return 0, ErrNoRowCount
	}
	return c.rowCount, nil
}

func (c *Client) setRowCount(n int64) {
	c.mu.Lock()
	c.rowCount = n
	c.hasCount = true
	c.mu.Unlock()
}

func (c *Client) exec(ctx context.Context, op, table string, q *sqlgen.Query) (sql.Result, error) {
	var res sql.Result
	err := c.run(ctx, op, q.SQL, q.Args, func() error {
		var err error
		res, err = c.conn.Execute(ctx, q.SQL, q.Args...)
		return err
	})
	if err != nil {
		return nil, wrap(op, table, q.SQL, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		c.setRowCount(n)
	}
	return res, nil
}

func (c *Client) query(ctx context.Context, op, table string, q *sqlgen.Query) (*sql.Rows, error) {
	var rows *sql.Rows
	err := c.run(ctx, op, q.SQL, q.Args, func() error {
		var err error
		rows, err = c.conn.Query(ctx, q.SQL, q.Args...)
		return err
	})
	if err != nil {
		return nil, wrap(op, table, q.SQL, err)
	}
	return rows, nil
}

var _ Driver = (*Client)(nil)
