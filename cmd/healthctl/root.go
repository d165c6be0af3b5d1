// FilePath: cmd/healthctl/root.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/database"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	timeout    time.Duration
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "healthctl",
		Short: "Operate a health hub store",
		Long: `healthctl talks to the store and status tracker configured for the hub.

EXAMPLES:

  healthctl ping                                  # Server version and tables
  healthctl schema init                           # Create missing tables
  healthctl import csv blood_glucose.csv          # Backfill from CSV
  healthctl import csv --kind sleep export.csv    # Explicit kind
  healthctl ingest glucose export.json            # Run an export file through the pipeline
  healthctl status                                # Last ingestion per kind`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./config/config.yaml)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 5*time.Minute, "overall command timeout")

	root.AddCommand(
		newVersionCmd(),
		newPingCmd(a),
		newSchemaCmd(a),
		newImportCmd(a),
		newIngestCmd(a),
		newStatusCmd(a),
	)
	return root
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

// provider returns a connected provider; the schema is created on connect.
func (a *app) provider(ctx context.Context) (*database.Provider, error) {
	p := database.NewProviderWithOpener(a.cfg.Database, database.Open)
	if _, err := p.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s store: %w", a.cfg.Database.Driver, err)
	}
	return p, nil
}
