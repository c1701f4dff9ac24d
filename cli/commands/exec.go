package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/satishbabariya/sqlcrud/cli/internal/watch"
	"github.com/satishbabariya/sqlcrud/query/builder"
	"github.com/satishbabariya/sqlcrud/query/executor"
	"github.com/spf13/cobra"
)

func newExecCommand(opts *rootOptions) *cobra.Command {
	var file string
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "exec [sql]",
		Short: "Execute a statement and print the affected row count",
		Long: `Execute a SQL statement given as an argument or read from --file.
With --watch the file is executed again every time it is saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchFile && file == "" {
				return errors.New("--watch requires --file")
			}
			if (len(args) == 1) == (file != "") {
				return errors.New("pass either a statement or --file")
			}

			return opts.withManager(cmd.Context(), func(m *executor.SqlManager) error {
				if watchFile {
					return runExecWatch(cmd.Context(), m, file)
				}

				statement := ""
				if len(args) == 1 {
					statement = args[0]
				} else {
					content, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					statement = string(content)
				}
				return runExec(cmd.Context(), m, statement)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the statement from a file")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-run the file whenever it changes")

	return cmd
}

func runExec(ctx context.Context, m *executor.SqlManager, statement string) error {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return errors.New("empty statement")
	}

	if _, err := m.ExecuteSQL(ctx, builder.NewQueryBuilder().Query(statement)); err != nil {
		return err
	}

	n, err := m.GetRowCount()
	if err != nil {
		return err
	}
	ui.PrintRowCount(n)
	return nil
}

func runExecWatch(ctx context.Context, m *executor.SqlManager, file string) error {
	w, err := watch.NewWatcher(file, func(ctx context.Context, content []byte) error {
		ui.PrintSection(fmt.Sprintf("exec %s", file))
		if err := runExec(ctx, m, string(content)); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ui.PrintInfo("watching %s, press Ctrl+C to stop", file)
	return w.Run(ctx)
}
