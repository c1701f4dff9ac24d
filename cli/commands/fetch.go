package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/satishbabariya/sqlcrud/query/builder"
	"github.com/satishbabariya/sqlcrud/query/executor"
	"github.com/satishbabariya/sqlcrud/runtime/client"
	"github.com/spf13/cobra"
)

type fetchOptions struct {
	filterFlags
	table  string
	column bool
	stream bool
}

func newFetchCommand(opts *rootOptions) *cobra.Command {
	fo := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch [query]",
		Short: "Fetch rows and print them as a table",
		Long: `Fetch rows with a query or from --table.

A query may reference :named parameters, which are bound from --where:

  sqlcrud fetch "SELECT * FROM users WHERE id IN (:id)" --where "id IN (1, 2)"

With --table the query is built from the table and the conditions:

  sqlcrud fetch --table users --where "status = 'open'" --sort "id DESC"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qb := builder.NewQueryBuilder().Table(fo.table)
			if len(args) == 1 {
				qb.Query(args[0])
			}
			if (qb.GetQuery() == "") == (qb.GetTableName() == "") {
				return errors.New("pass either a query or --table")
			}
			if err := fo.apply(qb); err != nil {
				return err
			}

			return opts.withManager(cmd.Context(), func(m *executor.SqlManager) error {
				return runFetch(cmd.Context(), m, qb, fo)
			})
		},
	}

	fo.register(cmd)
	cmd.Flags().StringVarP(&fo.table, "table", "t", "", "table to select from")
	cmd.Flags().BoolVar(&fo.column, "column", false, "fetch only the first column")
	cmd.Flags().BoolVar(&fo.stream, "stream", false, "print rows as they are read")

	return cmd
}

func runFetch(ctx context.Context, m *executor.SqlManager, qb *builder.QueryBuilder, fo *fetchOptions) error {
	var err error
	switch {
	case fo.stream && fo.column:
		err = streamColumn(ctx, m, qb)
	case fo.stream:
		err = streamRows(ctx, m, qb)
	case fo.column:
		var values []interface{}
		if values, err = m.FetchColumnMany(ctx, qb); err == nil {
			err = ui.PrintTable(ui.ColumnTable("value", values))
		}
	default:
		err = printRows(ctx, m, qb)
	}
	if errors.Is(err, client.ErrNotFound) {
		ui.PrintWarning("no rows")
		err = nil
	}
	if err != nil {
		return err
	}

	n, err := m.GetRowCount()
	if err != nil {
		return err
	}
	ui.PrintRowCount(n)
	return nil
}

func printRows(ctx context.Context, m *executor.SqlManager, qb *builder.QueryBuilder) error {
	rows, err := m.FetchRowMany(ctx, qb)
	if err != nil {
		return err
	}
	return ui.PrintTable(ui.RowsTable(rows))
}

func streamRows(ctx context.Context, m *executor.SqlManager, qb *builder.QueryBuilder) error {
	cursor, err := m.FetchRowManyCursor(ctx, qb)
	if err != nil {
		return err
	}
	defer cursor.Close()

	header := false
	for row := range cursor.All() {
		if !header {
			fmt.Fprintln(ui.Out, strings.Join(row.Columns(), "\t"))
			header = true
		}
		cells := make([]string, 0, row.Len())
		for _, v := range row.All() {
			cells = append(cells, ui.FormatValue(v))
		}
		fmt.Fprintln(ui.Out, strings.Join(cells, "\t"))
	}
	return cursor.Err()
}

func streamColumn(ctx context.Context, m *executor.SqlManager, qb *builder.QueryBuilder) error {
	cursor, err := m.FetchColumnManyCursor(ctx, qb)
	if err != nil {
		return err
	}
	defer cursor.Close()

	for v := range cursor.All() {
		fmt.Fprintln(ui.Out, ui.FormatValue(v))
	}
	return cursor.Err()
}
