// FilePath: cmd/healthctl/status.go
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	"github.com/itsatony/healthhub/internal/repository/redisstore"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last ingestion per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Redis.Enabled {
				return errors.New("status tracking is disabled (redis.enabled = false)")
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			tracker := redisstore.New(a.cfg.Redis)
			defer tracker.Close()

			out := cmd.OutOrStdout()
			faint := color.New(color.Faint)
			for _, kind := range models.Kinds {
				st, err := tracker.Get(ctx, kind)
				if errors.Is(err, repository.ErrNotFound) {
					fmt.Fprintf(out, "%-9s %s\n", kind, faint.Sprint("never ingested"))
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-9s %-7s %s  calls=%d total=%d  %s\n",
					kind, st.Last.Status, st.Last.Message, st.Calls, st.TotalProcessed,
					faint.Sprint(st.UpdatedAt.Format("2006-01-02 15:04:05")))
			}
			return nil
		},
	}
}
