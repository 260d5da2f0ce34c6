package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"erclink/internal/storage"
)

func (a *app) runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent link and reset passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			runs, err := storage.NewLinkRunRepo(db).ListRecent(a.context(cmd, cfg.LogLevel), limit)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tDATASET\tREPORT\tTYPE\tROWS\tLINKED\tUNMATCHED")
			for _, r := range runs {
				kind := r.Style
				if r.Reset {
					kind = "reset"
				}
				if r.DryRun {
					kind += " (dry run)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
					r.CreatedAt.Local().Format(time.DateTime), r.DatasetPageID, r.ReportPageID,
					kind, r.Rows, r.Linked, r.Unmatched)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
