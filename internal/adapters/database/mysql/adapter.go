// Package mysql implements MySQL database adapter.
package mysql

import (
	"context"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/satishbabariya/sqlcrud/internal/adapters/database"
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	database.SQLAdapter
	config database.Config
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	return &MySQLAdapter{
		SQLAdapter: database.SQLAdapter{
			Dialect:      database.MySQL,
			VersionQuery: "SELECT VERSION()",
		},
		config: config,
	}, nil
}

// Connect establishes a connection to the MySQL database.
func (a *MySQLAdapter) Connect(ctx context.Context) error {
	dsn, err := NormalizeDSN(a.config.URL)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, "mysql", dsn, a.config)
	if err != nil {
		return err
	}
	a.DB = db
	return nil
}

// NormalizeDSN accepts either a driver DSN or a mysql:// URL and returns a
// driver DSN with ClientFoundRows and ParseTime enabled. ClientFoundRows
// makes an UPDATE report matched rows, so rewriting identical values still
// counts as a successful update.
func NormalizeDSN(url string) (string, error) {
	dsn := strings.TrimPrefix(url, "mysql://")
	if dsn != url {
		// user:pass@host:port/db -> user:pass@tcp(host:port)/db
		if at := strings.LastIndex(dsn, "@"); at >= 0 {
			rest := dsn[at+1:]
			host, path, _ := strings.Cut(rest, "/")
			if !strings.Contains(host, "(") {
				rest = "tcp(" + host + ")/" + path
			}
			dsn = dsn[:at+1] + rest
		}
	}

	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
