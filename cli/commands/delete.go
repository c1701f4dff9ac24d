package commands

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/satishbabariya/sqlcrud/query/builder"
	"github.com/satishbabariya/sqlcrud/query/executor"
	"github.com/spf13/cobra"
)

// confirm asks for a yes/no answer. Tests replace it.
var confirm = func(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	var table string
	var yes bool
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the rows matching the conditions",
		Long: `Delete rows from --table. Conditions are required; run compile --op delete
first to see the statement.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qb := builder.NewQueryBuilder().Table(table)
			if err := filters.apply(qb); err != nil {
				return err
			}
			if qb.WhereClause() == "" {
				return errors.New("delete requires --where or --raw")
			}

			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete from %s where %s?", table, qb.WhereClause()))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintWarning("aborted")
					return nil
				}
			}

			return opts.withManager(cmd.Context(), func(m *executor.SqlManager) error {
				deleted, err := m.Delete(cmd.Context(), qb)
				if err != nil {
					return err
				}
				n, err := m.GetRowCount()
				if err != nil {
					return err
				}
				if !deleted {
					ui.PrintWarning("no matching rows")
				}
				ui.PrintRowCount(n)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "table name")
	cmd.Flags().StringVar(&filters.where, "where", "", "conditions, e.g. \"id = 5\"")
	cmd.Flags().StringVar(&filters.raw, "raw", "", "verbatim WHERE fragment; --where supplies its :named parameters")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}
