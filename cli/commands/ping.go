package commands

import (
	"time"

	"github.com/satishbabariya/sqlcrud/cli/internal/compat"
	"github.com/satishbabariya/sqlcrud/cli/internal/ui"
	"github.com/spf13/cobra"
)

func newPingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the connection and the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start := time.Now()

			c, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			adapter := c.Adapter()
			if err := adapter.Ping(ctx); err != nil {
				return err
			}
			raw, err := adapter.ServerVersion(ctx)
			if err != nil {
				return err
			}

			v, err := compat.Check(raw, opts.cfg.MinServerVersion)
			if err != nil {
				return err
			}

			ui.PrintSuccess("%s %s reachable in %s", c.Dialect(), v, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
