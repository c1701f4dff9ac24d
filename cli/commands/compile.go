package commands

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/sqlcrud/cli/internal/condexpr"
	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/satishbabariya/sqlcrud/query/builder"
	"github.com/satishbabariya/sqlcrud/query/executor"
	"github.com/satishbabariya/sqlcrud/query/sqlgen"
	"github.com/satishbabariya/sqlcrud/runtime/types"
	"github.com/spf13/cobra"
)

type compileOptions struct {
	filterFlags
	table string
	op    string
	set   string
	plain bool
}

func newCompileCommand(opts *rootOptions) *cobra.Command {
	co := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the SQL a CRUD operation would run",
		Long: `Compile conditions into the statement a read, update or delete would
run against the configured provider. Nothing is sent to the database.

  sqlcrud compile --table users --where "id = 5 AND tag IN (1, 2)"
  sqlcrud compile --table users --op update --set "status = 'closed'" --where "id = 5"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := sqlgen.NewGenerator(generatorProvider(opts.cfg.Database.Provider))
			q, err := compileStatement(gen, co)
			if err != nil {
				return err
			}

			if co.plain {
				fmt.Fprintln(ui.Out, q.SQL)
				for i, a := range q.Args {
					fmt.Fprintf(ui.Out, "-- %d: %s\n", i+1, ui.FormatValue(a))
				}
				return nil
			}
			return ui.PrintMarkdown(ui.SQLMarkdown(co.op+" ("+string(gen.Dialect())+")", q.SQL, q.Args))
		},
	}

	co.register(cmd)
	cmd.Flags().StringVarP(&co.table, "table", "t", "", "table name")
	cmd.Flags().StringVar(&co.op, "op", "select", "operation: select, update or delete")
	cmd.Flags().StringVar(&co.set, "set", "", "columns to update, e.g. \"status = 'closed'\"")
	cmd.Flags().BoolVar(&co.plain, "plain", false, "print plain SQL instead of rendered markdown")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

// compileStatement builds the statement for co.op.
func compileStatement(gen sqlgen.Generator, co *compileOptions) (*sqlgen.Query, error) {
	qb := builder.NewQueryBuilder().Table(co.table)
	if err := co.apply(qb); err != nil {
		return nil, err
	}

	switch co.op {
	case "select":
		query, err := executor.SelectQuery(qb)
		if err != nil {
			return nil, err
		}
		return gen.Bind(query, qb.GetConditions())
	case "update":
		row, err := parseAssignments(co.set)
		if err != nil {
			return nil, err
		}
		return gen.Update(qb.GetTableName(), qb.GetConditions(), row, qb.WhereClause())
	case "delete":
		return gen.Delete(qb.GetTableName(), qb.GetConditions(), qb.WhereClause())
	default:
		return nil, fmt.Errorf("unknown operation %q", co.op)
	}
}

// parseAssignments reads "a = 1 AND b = 'x'" as the columns of a row.
func parseAssignments(input string) (*types.Row, error) {
	set, err := condexpr.ParseSet(input)
	if err != nil {
		return nil, err
	}
	if set.IsEmpty() {
		return nil, errors.New("--set is required for update")
	}

	row := types.NewRow()
	for col, v := range set.All() {
		if _, ok := v.([]interface{}); ok {
			return nil, fmt.Errorf("--set: %s cannot be a list", col)
		}
		row.Set(col, v)
	}
	return row, nil
}

// generatorProvider maps a configured provider to the dialect it speaks.
func generatorProvider(provider string) string {
	if provider == "gorm" {
		return "sqlite"
	}
	return provider
}
