package commands

import (
	"fmt"

	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/satishbabariya/sqlcrud/cli/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if short {
				fmt.Fprintln(ui.Out, info.String())
				return
			}
			fmt.Fprintln(ui.Out, info.FullString())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print a single line")
	return cmd
}
