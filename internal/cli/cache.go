package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"erclink/internal/storage"
)

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local match cache",
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete cached matches older than a duration",
		Long: `Prune removes memoized match results. Without --older-than it uses
MATCH_CACHE_TTL; --older-than 0 clears the whole cache.

Example:
  erclink cache prune --older-than 168h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ttl := cfg.MatchCacheTTL
			if cmd.Flags().Changed("older-than") {
				ttl = olderThan
			} else if ttl == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "MATCH_CACHE_TTL is 0, cache entries never expire")
				return nil
			}
			if ttl < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			cutoff := time.Now().Add(-ttl)
			if ttl == 0 {
				// Include rows written in this instant.
				cutoff = cutoff.Add(time.Second)
			}
			n, err := storage.NewMatchCacheRepo(db).DeleteBefore(a.context(cmd, cfg.LogLevel), cutoff)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"removed": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached matches\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 0, "age of the oldest entry to keep (default MATCH_CACHE_TTL)")

	cmd.AddCommand(prune)
	return cmd
}
