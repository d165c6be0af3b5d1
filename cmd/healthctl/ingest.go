// FilePath: cmd/healthctl/ingest.go
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/itsatony/healthhub/internal/ingest"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository/sqlstore"
	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest KIND FILE",
		Short: "Run an Auto Export JSON file through the ingestion pipeline",
		Long: `Reads an Auto Export JSON file and ingests it exactly like a POST to
/api/KIND would, without going through the server.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			body, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			p, err := a.provider(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			res := ingest.New(sqlstore.NewStore(p)).IngestJSON(ctx, kind, body)
			printResult(cmd, res)
			if res.Status == models.StatusError {
				return fmt.Errorf("ingest failed: %s", res.Message)
			}
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, res models.IngestResult) {
	paint := color.GreenString
	switch res.Status {
	case models.StatusWarning:
		paint = color.YellowString
	case models.StatusError:
		paint = color.RedString
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (processed %d, extracted %d, skipped %d)\n",
		paint("%-7s", res.Status), res.Message, res.Processed, res.Extracted, res.Skipped)
}
