// Package gormdb adapts a gorm connection to the database.Adapter interface,
// so code that already owns a *gorm.DB can share its pool.
package gormdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database/sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var versionQueries = map[database.SQLDialect]string{
	database.PostgreSQL: "SHOW server_version",
	database.MySQL:      "SELECT VERSION()",
	database.SQLite:     "SELECT sqlite_version()",
}

// GormAdapter implements the database.Adapter interface on top of gorm.
type GormAdapter struct {
	db     *gorm.DB
	config database.Config
	owned  bool
}

// NewGormAdapter creates an adapter that opens a SQLite database through
// gorm on Connect.
func NewGormAdapter(config database.Config) (*GormAdapter, error) {
	return &GormAdapter{config: config}, nil
}

// FromGorm wraps an existing gorm connection. Disconnect leaves it open.
func FromGorm(db *gorm.DB) *GormAdapter {
	return &GormAdapter{db: db}
}

// Connect opens the database unless the adapter wraps an existing connection.
func (a *GormAdapter) Connect(ctx context.Context) error {
	if a.db != nil {
		return a.Ping(ctx)
	}

	db, err := gorm.Open(gormsqlite.Open(sqlite.Path(a.config.URL)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, a.config.Timeout())
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	a.owned = true
	return nil
}

// Disconnect closes the connection if the adapter opened it.
func (a *GormAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil || !a.owned {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	a.db = nil
	return sqlDB.Close()
}

// Gorm returns the underlying gorm connection.
func (a *GormAdapter) Gorm() *gorm.DB {
	return a.db
}

// Execute executes a query without returning rows.
func (a *GormAdapter) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return a.db.ConnPool.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *GormAdapter) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return a.db.ConnPool.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row.
func (a *GormAdapter) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if a.db == nil {
		return nil
	}
	return a.db.ConnPool.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (a *GormAdapter) Begin(ctx context.Context) (database.Transaction, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	tx := a.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &GormTransaction{tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (a *GormAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return database.ErrNotConnected
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ServerVersion reports the version string of the database server.
func (a *GormAdapter) ServerVersion(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", database.ErrNotConnected
	}
	q, ok := versionQueries[a.GetDialect()]
	if !ok {
		return "", fmt.Errorf("unknown dialect %q", a.GetDialect())
	}
	var v string
	if err := a.db.WithContext(ctx).Raw(q).Row().Scan(&v); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return v, nil
}

// GetDialect returns the SQL dialect of the gorm dialector.
func (a *GormAdapter) GetDialect() database.SQLDialect {
	if a.db == nil {
		return database.SQLite
	}
	return database.SQLDialect(a.db.Dialector.Name())
}

// GormTransaction implements the database.Transaction interface.
type GormTransaction struct {
	tx *gorm.DB
}

// Commit commits the transaction.
func (t *GormTransaction) Commit() error {
	return t.tx.Commit().Error
}

// Rollback rolls back the transaction.
func (t *GormTransaction) Rollback() error {
	return t.tx.Rollback().Error
}

// Execute executes a query within the transaction.
func (t *GormTransaction) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.Statement.ConnPool.ExecContext(ctx, query, args...)
}

// Query executes a query within the transaction.
func (t *GormTransaction) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.Statement.ConnPool.QueryContext(ctx, query, args...)
}

var (
	_ database.Adapter     = (*GormAdapter)(nil)
	_ database.Transaction = (*GormTransaction)(nil)
)
