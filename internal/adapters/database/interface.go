// Package database defines database adapter interfaces.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/satishbabariya/sqlcrud/query/sqlgen"
)

// Conn is the statement surface shared by adapters and transactions.
type Conn interface {
	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Adapter defines the database adapter interface.
type Adapter interface {
	Conn

	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// QueryRow executes a query that returns a single row.
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row

	// Begin starts a transaction.
	Begin(ctx context.Context) (Transaction, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ServerVersion reports the version string of the database server.
	ServerVersion(ctx context.Context) (string, error)

	// GetDialect returns the SQL dialect.
	GetDialect() SQLDialect
}

// Transaction defines the transaction interface.
type Transaction interface {
	Conn

	// Commit commits the transaction.
	Commit() error

	// Rollback rolls back the transaction.
	Rollback() error
}

// SQLDialect represents a SQL dialect.
type SQLDialect = sqlgen.Dialect

const (
	// PostgreSQL dialect.
	PostgreSQL = sqlgen.PostgreSQL
	// MySQL dialect.
	MySQL = sqlgen.MySQL
	// SQLite dialect.
	SQLite = sqlgen.SQLite
)

// DefaultConnectTimeout bounds the initial ping when Config.ConnectTimeout is unset.
const DefaultConnectTimeout = 10 * time.Second

// Config holds database connection configuration.
type Config struct {
	Provider       string `mapstructure:"provider"`
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdleTime    int    `mapstructure:"max_idle_time"`   // seconds
	ConnectTimeout int    `mapstructure:"connect_timeout"` // seconds

	// ReturningColumn names the generated key column fetched with
	// RETURNING on PostgreSQL inserts. Empty disables it.
	ReturningColumn string `mapstructure:"returning_column"`
}

// Timeout returns the connect timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return time.Duration(c.ConnectTimeout) * time.Second
}
