// FilePath: cmd/healthctl/version.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	nuts "github.com/vaudience/go-nuts"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "healthctl", nuts.GetVersion())
		},
	}
}
