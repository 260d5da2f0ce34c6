package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"erclink/internal/contextutil"
	"erclink/internal/linker"
	"erclink/internal/service"
	"erclink/internal/storage"
)

type linkFlags struct {
	datasetPageID string
	reportPageID  string
	linkType      string
	dryRun        bool
}

func (a *app) linkCmd() *cobra.Command {
	var f linkFlags
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link dataset variables to report headings",
		Long: `Link fetches a dataset page and its report page, matches every variable
of the dataset's variables table to a report heading and writes the page
back with the links in place.

The report page title must equal the dataset title without its
"Datasets: " prefix.

Examples:
  erclink link --dataset-page-id 12345 --report-page-id 67890
  erclink link --dataset-page-id 12345 --report-page-id 67890 --link-type tea --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLink(cmd, f, false)
		},
	}

	addPageFlags(cmd, &f)
	cmd.Flags().StringVar(&f.linkType, "link-type", string(linker.StyleTHECB), "table layout: thecb, sbec or tea")
	cmd.Flags().Int(keyMaxLevel, 0, "deepest report heading level to match (default 3)")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var f linkFlags
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Turn the links of a dataset page back into plain text",
		Long: `Reset replaces every link in the third column of the variables table with
its text and writes the page back.

Example:
  erclink reset --dataset-page-id 12345 --report-page-id 67890`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLink(cmd, f, true)
		},
	}

	addPageFlags(cmd, &f)
	return cmd
}

func addPageFlags(cmd *cobra.Command, f *linkFlags) {
	cmd.Flags().StringVar(&f.datasetPageID, "dataset-page-id", "", "Confluence id of the dataset page")
	cmd.Flags().StringVar(&f.reportPageID, "report-page-id", "", "Confluence id of the report page")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "show the rewritten page without saving it")
	_ = cmd.MarkFlagRequired("dataset-page-id")
	_ = cmd.MarkFlagRequired("report-page-id")
}

func (a *app) runLink(cmd *cobra.Command, f linkFlags, reset bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireConfluence(); err != nil {
		return err
	}

	ctx := a.context(cmd, cfg.LogLevel)
	logger := contextutil.LoggerFromContext(ctx)

	lexicon, err := cfg.Lexicon()
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	var runs service.RunRecorder
	if db, err := openDB(cfg); err != nil {
		logger.WarnContext(ctx, "run history disabled", "error", err)
	} else {
		defer func() {
			_ = db.Close()
		}()
		runs = storage.NewLinkRunRepo(db)
	}

	svc, err := service.NewLinkService(a.pages(cfg), runs, lexicon)
	if err != nil {
		return err
	}

	req := service.LinkRequest{
		DatasetPageID: f.datasetPageID,
		ReportPageID:  f.reportPageID,
		Reset:         reset,
		DryRun:        f.dryRun,
	}
	if !reset {
		req.Style = linker.Style(f.linkType)
		req.MaxLevel = a.v.GetInt(keyMaxLevel)
	}

	res, err := svc.UpdateLinks(ctx, req)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		if !f.dryRun {
			res.Content = ""
		}
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return printLinkResult(cmd.OutOrStdout(), res, f.dryRun)
}

func printLinkResult(w io.Writer, res service.LinkResult, dryRun bool) error {
	rep := res.Report
	fmt.Fprintf(w, "Page: %s\n", res.Title)
	fmt.Fprintf(w, "Rows: %d linked, %d unmatched, %d skipped\n", rep.Linked, rep.Unmatched, rep.Skipped)

	var unmatched []string
	for _, e := range rep.Entries {
		if !e.Matched && e.Label != "" {
			unmatched = append(unmatched, e.Label)
		}
	}
	if len(unmatched) > 0 && res.Comment != service.ResetComment {
		fmt.Fprintf(w, "No heading for: %s\n", strings.Join(unmatched, ", "))
	}

	if !dryRun {
		fmt.Fprintf(w, "Page updated: %s\n", res.Comment)
		return nil
	}

	fmt.Fprintln(w, "Dry run, page not updated.")
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(res.Before),
		B:        difflib.SplitLines(res.Content),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  1,
	})
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(w, "No changes.")
		return nil
	}
	_, err = io.WriteString(w, diff)
	return err
}
