package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotConnected is returned when a statement is issued before Connect.
var ErrNotConnected = errors.New("database not connected")

// SQLAdapter implements the statement half of Adapter over a *sql.DB.
// Provider adapters embed it and supply Connect.
type SQLAdapter struct {
	DB      *sql.DB
	Dialect SQLDialect

	// VersionQuery returns the server version as a single column.
	VersionQuery string
}

// Open opens a pool, applies the pool settings of config and pings it
// within the connect timeout.
func Open(ctx context.Context, driverName string, dsn string, config Config) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxConnections > 0 {
		db.SetMaxOpenConns(config.MaxConnections)
		db.SetMaxIdleConns(max(config.MaxConnections/2, 1))
	}
	if config.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.MaxIdleTime) * time.Second)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.Timeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Disconnect closes the database connection.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}

// Execute executes a query without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if a.DB == nil {
		return nil, ErrNotConnected
	}
	return a.DB.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if a.DB == nil {
		return nil, ErrNotConnected
	}
	return a.DB.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if a.DB == nil {
		return nil
	}
	return a.DB.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (a *SQLAdapter) Begin(ctx context.Context) (Transaction, error) {
	if a.DB == nil {
		return nil, ErrNotConnected
	}
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &SQLTransaction{Tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.DB == nil {
		return ErrNotConnected
	}
	return a.DB.PingContext(ctx)
}

// ServerVersion reports the version string of the database server.
func (a *SQLAdapter) ServerVersion(ctx context.Context) (string, error) {
	if a.DB == nil {
		return "", ErrNotConnected
	}
	var v string
	if err := a.DB.QueryRowContext(ctx, a.VersionQuery).Scan(&v); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return v, nil
}

// GetDialect returns the SQL dialect.
func (a *SQLAdapter) GetDialect() SQLDialect {
	return a.Dialect
}

// SQLTransaction implements Transaction over a *sql.Tx.
type SQLTransaction struct {
	Tx *sql.Tx
}

// Commit commits the transaction.
func (t *SQLTransaction) Commit() error {
	return t.Tx.Commit()
}

// Rollback rolls back the transaction.
func (t *SQLTransaction) Rollback() error {
	return t.Tx.Rollback()
}

// Execute executes a query within the transaction.
func (t *SQLTransaction) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.Tx.ExecContext(ctx, query, args...)
}

// Query executes a query within the transaction.
func (t *SQLTransaction) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.Tx.QueryContext(ctx, query, args...)
}

var _ Transaction = (*SQLTransaction)(nil)
