// Package commands implements the sqlcrud CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlcrud/cli/internal/condexpr"
	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/satishbabariya/sqlcrud/cli/internal/version"
	"github.com/satishbabariya/sqlcrud/internal/config"
	"github.com/satishbabariya/sqlcrud/internal/debug"
	"github.com/satishbabariya/sqlcrud/query/builder"
	"github.com/satishbabariya/sqlcrud/query/executor"
	"github.com/satishbabariya/sqlcrud/runtime/client"
	"github.com/spf13/cobra"
)

// ErrNoDatabaseURL is returned by commands that need a connection when no
// URL is configured.
var ErrNoDatabaseURL = errors.New("no database URL: pass --url, set DATABASE_URL or add database.url to .sqlcrud.yaml")

// rootOptions holds the persistent flags and the loaded configuration.
type rootOptions struct {
	provider string
	url      string
	debug    bool

	cfg *config.Config
}

// NewRootCommand creates the sqlcrud command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sqlcrud",
		Short:         "Run CRUD statements against SQL databases",
		Long:          "sqlcrud compiles condition expressions into parameterized SQL and runs them against PostgreSQL, MySQL or SQLite.",
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.provider, "provider", "", "database provider (postgresql, mysql, sqlite, gorm)")
	flags.StringVar(&opts.url, "url", "", "database connection URL")
	flags.BoolVar(&opts.debug, "debug", false, "log every statement")

	cmd.AddCommand(
		newExecCommand(opts),
		newFetchCommand(opts),
		newCompileCommand(opts),
		newDeleteCommand(opts),
		newPingCommand(opts),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// load reads the configuration and applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Database.Provider = o.provider
	}
	if flags.Changed("url") {
		cfg.Database.URL = o.url
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	debug.Init(cfg.Debug)
	o.cfg = cfg
	return nil
}

// open connects to the configured database.
func (o *rootOptions) open(ctx context.Context) (*client.Client, error) {
	if o.cfg.Database.URL == "" {
		return nil, ErrNoDatabaseURL
	}
	return client.Open(ctx, o.cfg.Database)
}

// withManager opens a client, runs fn and closes the client.
func (o *rootOptions) withManager(ctx context.Context, fn func(m *executor.SqlManager) error) error {
	c, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	return fn(executor.NewSqlManager(c))
}

// filterFlags are the condition flags shared by fetch, compile and delete.
type filterFlags struct {
	where string
	raw   string
	sort  string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.where, "where", "", "conditions, e.g. \"id = 5 AND tag IN (1, 2)\"")
	cmd.Flags().StringVar(&f.raw, "raw", "", "verbatim WHERE fragment; --where supplies its :named parameters")
	cmd.Flags().StringVar(&f.sort, "sort", "", "ORDER BY clause")
}

// apply sets the conditions and sort of qb from the flags.
func (f *filterFlags) apply(qb *builder.QueryBuilder) error {
	set, err := condexpr.ParseSet(f.where)
	if err != nil {
		return err
	}
	qb.Where(set)
	if strings.TrimSpace(f.raw) != "" {
		qb.WhereRaw(f.raw)
	}
	if f.sort != "" {
		qb.SortBy(f.sort)
	}
	return nil
}
