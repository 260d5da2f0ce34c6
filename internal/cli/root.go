// Package cli implements the erclink command line.
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"erclink/internal/config"
	"erclink/internal/confluence"
	"erclink/internal/contextutil"
	"erclink/internal/matcher"
	"erclink/internal/service"
	"erclink/internal/storage"
)

// Viper keys shared by the subcommands. Values come from flags, ERCLINK_*
// environment variables or the config file, in that order.
const (
	keyPreset    = "preset"
	keyThreshold = "threshold"
	keyMaxLevel  = "max-level"
	keyLexicon   = "lexicon"
)

type app struct {
	cfgFile string
	quiet   bool
	output  string

	v *viper.Viper
	// pages builds the wiki client; tests replace it.
	pages func(cfg *config.Config) service.PageClient
}

func newApp() *app {
	return &app{
		v: viper.New(),
		pages: func(cfg *config.Config) service.PageClient {
			return confluence.NewClient(cfg.ConfluenceURL, cfg.ConfluenceUsername, cfg.ConfluenceAPIToken)
		},
	}
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the erclink command tree.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "erclink",
		Short: "Link ERC dataset variables to their report headings in Confluence",
		Long: `erclink rewrites the variables table of an ERC dataset page so that each
variable links to the matching section of its report page.

It can also match single labels against a list of headings and extract the
headings of a local document, which helps when tuning the matcher.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != "human" && a.output != "json" {
				return fmt.Errorf("unknown output format %q (want human or json)", a.output)
			}
			return a.initConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.erclink.yaml)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "quiet output (only warnings and errors are logged)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "human", "output format (human, json)")

	root.AddCommand(
		a.linkCmd(),
		a.resetCmd(),
		a.matchCmd(),
		a.headingsCmd(),
		a.runsCmd(),
		a.cacheCmd(),
	)
	return root
}

// initConfig reads in the config file and ENV variables if set, and binds
// the running command's flags.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		// Use config file from the flag.
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".erclink" (without extension).
		a.v.AddConfigPath(home)
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".erclink")
	}

	a.v.SetEnvPrefix("ERCLINK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	// Only the executing command's flags are bound, so commands sharing a key do not clash.
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else if !a.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", a.v.ConfigFileUsed())
	}
	return nil
}

// loadConfig loads the environment configuration and applies CLI overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if p := a.v.GetString(keyLexicon); p != "" {
		cfg.LexiconPath = p
	}
	return cfg, nil
}

// context returns the command context carrying a stderr logger.
func (a *app) context(cmd *cobra.Command, level slog.Level) context.Context {
	if a.quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return contextutil.WithLogger(cmd.Context(), logger)
}

// openDB opens and migrates the local database.
func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// preset returns the preset chosen on the command line or in config.
func (a *app) preset(cfg *config.Config) (string, error) {
	p := a.v.GetString(keyPreset)
	if p == "" {
		return cfg.MatchPreset, nil
	}
	if _, err := matcher.Preset(p); err != nil {
		return "", err
	}
	return p, nil
}

// threshold returns the threshold override, or nil when none was given.
func (a *app) threshold() *float64 {
	if !a.v.IsSet(keyThreshold) {
		return nil
	}
	t := a.v.GetFloat64(keyThreshold)
	return &t
}

func (a *app) jsonOutput() bool {
	return a.output == "json"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
