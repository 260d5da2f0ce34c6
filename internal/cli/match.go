package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"erclink/internal/headings"
	"erclink/internal/service"
	"erclink/internal/storage"
)

func (a *app) matchCmd() *cobra.Command {
	var (
		from     string
		useCache bool
	)
	cmd := &cobra.Command{
		Use:   "match <label> [heading...]",
		Short: "Match one label against a list of headings",
		Long: `Match runs the heading matcher once and prints the chosen heading and the
rule that produced it. Headings are taken from the arguments, or from a
document given with --from.

Examples:
  erclink match "E0774 Actual Amount" "Overview" "E0774 - Actual Amount Paid"
  erclink match CS_NONPROF_FUNC --from report.html --preset tea`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMatch(cmd, args[0], args[1:], from, useCache)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "read headings from an html, markdown or text file")
	cmd.Flags().String(keyPreset, "", "matcher preset (default from MATCH_PRESET)")
	cmd.Flags().Float64(keyThreshold, 0, "score threshold in [0,1] (default from preset)")
	cmd.Flags().Int(keyMaxLevel, 0, "deepest heading level read with --from (default 3)")
	cmd.Flags().String(keyLexicon, "", "YAML lexicon merged into the preset tables")
	cmd.Flags().BoolVar(&useCache, "cache", false, "memoize the result in the local database")
	return cmd
}

func (a *app) runMatch(cmd *cobra.Command, label string, hs []string, from string, useCache bool) error {
	if from != "" {
		data, err := os.ReadFile(from)
		if err != nil {
			return err
		}
		extracted, err := headings.Extract(headings.DetectFormat(from), data, a.v.GetInt(keyMaxLevel))
		if err != nil {
			return err
		}
		hs = append(hs, headings.Texts(extracted)...)
	}
	if len(hs) == 0 {
		return errors.New("no headings given")
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	ctx := a.context(cmd, cfg.LogLevel)

	preset, err := a.preset(cfg)
	if err != nil {
		return err
	}
	lexicon, err := cfg.Lexicon()
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	var cache service.MatchCache
	if useCache {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
		cache = storage.NewMatchCacheRepo(db)
	}

	svc, err := service.NewMatchService(cache, lexicon, preset)
	if err != nil {
		return err
	}
	resp, err := svc.Match(ctx, service.MatchRequest{
		Label:     label,
		Headings:  hs,
		Threshold: a.threshold(),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if a.jsonOutput() {
		return writeJSON(w, resp)
	}
	if !resp.Matched {
		fmt.Fprintf(w, "No match for %q (preset %s, threshold %.2f)\n", label, resp.Preset, resp.Threshold)
		return nil
	}
	fmt.Fprintf(w, "%s\n", resp.Heading)
	fmt.Fprintf(w, "rule %s, score %.3f, preset %s, threshold %.2f\n", resp.Rule, resp.Score, resp.Preset, resp.Threshold)
	return nil
}
