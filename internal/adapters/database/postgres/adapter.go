// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"context"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	database.SQLAdapter
	config database.Config
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	return &PostgresAdapter{
		SQLAdapter: database.SQLAdapter{
			Dialect:      database.PostgreSQL,
			VersionQuery: "SHOW server_version",
		},
		config: config,
	}, nil
}

// Connect establishes a connection to the PostgreSQL database.
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	db, err := database.Open(ctx, "postgres", a.config.URL, a.config)
	if err != nil {
		return err
	}
	a.DB = db
	return nil
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
