// FilePath: cmd/healthctl/schema.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Manage the store schema",
	}
	schema.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the metric tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			p, err := a.provider(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ schema ready (%s)", p.Dialect()))
			return nil
		},
	})
	return schema
}
