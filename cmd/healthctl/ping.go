// FilePath: cmd/healthctl/ping.go
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/itsatony/healthhub/internal/database"
	"github.com/spf13/cobra"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the store connection",
		Long:  `Connects to the configured store without creating tables and prints the server version and existing tables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			out := cmd.OutOrStdout()
			db, err := database.Open(ctx, a.cfg.Database)
			if err != nil {
				fmt.Fprintln(out, color.RedString("✗ connection failed: %v", err))
				return err
			}
			defer db.Close()

			version, err := database.ServerVersion(ctx, db, a.cfg.Database.Driver)
			if err != nil {
				return err
			}
			tables, err := database.ListTables(ctx, db, a.cfg.Database.Driver)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, color.GreenString("✓ connected to %s", a.cfg.Database.Driver))
			fmt.Fprintf(out, "  version: %s\n", version)
			if len(tables) == 0 {
				fmt.Fprintln(out, color.YellowString("  no tables, run 'healthctl schema init'"))
				return nil
			}
			fmt.Fprintf(out, "  tables:  %s\n", strings.Join(tables, ", "))
			return nil
		},
	}
}
