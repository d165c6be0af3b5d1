// FilePath: cmd/healthctl/import.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/itsatony/healthhub/internal/csvimport"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository/sqlstore"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	imp := &cobra.Command{
		Use:   "import",
		Short: "Backfill the store from files",
	}

	var kindFlag string
	csvCmd := &cobra.Command{
		Use:   "csv FILE...",
		Short: "Import CSV files with one row per record",
		Long: `Imports CSV files whose header row names the table columns.

The kind is taken from --kind or, when omitted, from the file name:
sleep_data.csv, exercise_data.csv and blood_glucose.csv are recognized.
Rows without a key are ignored; rows with unparseable values are skipped.
Re-importing a file updates the existing rows.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			p, err := a.provider(ctx)
			if err != nil {
				return err
			}
			defer p.Close()
			store := sqlstore.NewStore(p)

			out := cmd.OutOrStdout()
			for _, path := range args {
				kind, err := importKind(kindFlag, path)
				if err != nil {
					return err
				}
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				res, err := csvimport.Import(ctx, store, kind, f)
				f.Close()
				if err != nil {
					fmt.Fprintln(out, color.RedString("✗ %s: %v", path, err))
					return err
				}
				fmt.Fprintf(out, "%s %s: uploaded %d %s records (skipped %d)\n",
					color.GreenString("✓"), path, res.Uploaded, kind, res.Skipped)
			}
			return nil
		},
	}
	csvCmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "metric kind: sleep, exercise or glucose")
	imp.AddCommand(csvCmd)
	return imp
}

// importKind resolves the kind of a CSV file from the flag or its name.
func importKind(flag, path string) (models.Kind, error) {
	if flag != "" {
		return models.ParseKind(flag)
	}
	name := strings.ToLower(filepath.Base(path))
	for _, k := range []string{"blood_glucose", "glucose", "exercise", "sleep"} {
		if strings.Contains(name, k) {
			return models.ParseKind(k)
		}
	}
	return "", fmt.Errorf("cannot tell the kind of %s, use --kind", path)
}
