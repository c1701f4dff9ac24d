// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	database.SQLAdapter
	config database.Config
}

// NewSQLiteAdapter creates a new SQLite adapter.
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	return &SQLiteAdapter{
		SQLAdapter: database.SQLAdapter{
			Dialect:      database.SQLite,
			VersionQuery: "SELECT sqlite_version()",
		},
		config: config,
	}, nil
}

// Connect establishes a connection to the SQLite database.
//
// The pool is pinned to a single connection: writes serialize anyway and an
// in-memory database lives only as long as its connection. A cursor therefore
// holds the only connection until it is closed.
func (a *SQLiteAdapter) Connect(ctx context.Context) error {
	config := a.config
	config.MaxConnections = 1

	db, err := database.Open(ctx, "sqlite3", Path(config.URL), config)
	if err != nil {
		return err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	a.DB = db
	return nil
}

// Path strips the sqlite:// and file: URL schemes the config may carry.
// "file::memory:" and query parameters are passed through.
func Path(url string) string {
	if strings.HasPrefix(url, "sqlite://") {
		return strings.TrimPrefix(url, "sqlite://")
	}
	if strings.HasPrefix(url, "file:") && !strings.Contains(url, "?") && !strings.HasPrefix(url, "file::memory:") {
		return strings.TrimPrefix(url, "file:")
	}
	return url
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
