package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"erclink/internal/headings"
)

func (a *app) headingsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "headings <file>",
		Short: "List the headings of a document",
		Long: `Headings prints the section headings the matcher would see for a report,
in document order. Use "-" to read from standard input.

Examples:
  erclink headings report.html
  erclink headings notes.md --max-level 4
  curl -s https://example.org/report | erclink headings - --format html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHeadings(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "html, markdown or text (default from file extension)")
	cmd.Flags().Int(keyMaxLevel, 0, "deepest heading level to list (default 3)")
	return cmd
}

func (a *app) runHeadings(cmd *cobra.Command, path, format string) error {
	f := headings.DetectFormat(path)
	if path == "-" {
		f = headings.FormatHTML
	}
	if format != "" {
		var err error
		if f, err = headings.ParseFormat(format); err != nil {
			return err
		}
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	hs, err := headings.Extract(f, data, a.v.GetInt(keyMaxLevel))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if a.jsonOutput() {
		if hs == nil {
			hs = []headings.Heading{}
		}
		return writeJSON(w, hs)
	}
	for _, h := range hs {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
	}
	return nil
}
