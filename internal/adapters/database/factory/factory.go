// Package factory creates database adapters by provider name.
package factory

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database/gormdb"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database/mysql"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database/postgres"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database/sqlite"
)

// New creates an unconnected adapter for config.Provider.
func New(config database.Config) (database.Adapter, error) {
	switch strings.ToLower(config.Provider) {
	case "postgresql", "postgres":
		return postgres.NewPostgresAdapter(config)
	case "mysql":
		return mysql.NewMySQLAdapter(config)
	case "sqlite", "sqlite3":
		return sqlite.NewSQLiteAdapter(config)
	case "gorm":
		return gormdb.NewGormAdapter(config)
	default:
		return nil, fmt.Errorf("unsupported provider: %q", config.Provider)
	}
}
