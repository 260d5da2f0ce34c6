package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"erclink/internal/matcher"
)

// Config holds all configuration for the application.
type Config struct {
	ConfluenceURL      string
	ConfluenceUsername string
	ConfluenceAPIToken string
	ConfluenceSpace    string
	DBPath             string
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
	MatchPreset        string
	LexiconPath        string
	// MatchCacheTTL is how long memoized matches are kept; 0 keeps them forever.
	MatchCacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the values it is given.
// If a .env file exists in the current directory or a parent, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		ConfluenceURL:      strings.TrimRight(getEnv("CONFLUENCE_URL", ""), "/"),
		ConfluenceUsername: getEnv("CONFLUENCE_USERNAME", ""),
		ConfluenceAPIToken: getEnv("CONFLUENCE_API_TOKEN", ""),
		ConfluenceSpace:    getEnv("CONFLUENCE_SPACE", ""),
		DBPath:             getEnv("DB_PATH", "./data/erclink.db"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		MatchPreset:        getEnv("MATCH_PRESET", matcher.PresetDefault),
		LexiconPath:        getEnv("LEXICON_PATH", ""),
	}

	level, err := ParseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	ttl, err := time.ParseDuration(getEnv("MATCH_CACHE_TTL", "720h"))
	if err != nil || ttl < 0 {
		return nil, fmt.Errorf("MATCH_CACHE_TTL must be a non-negative duration, got %q", os.Getenv("MATCH_CACHE_TTL"))
	}
	cfg.MatchCacheTTL = ttl

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if _, err := matcher.Preset(cfg.MatchPreset); err != nil {
		return nil, fmt.Errorf("MATCH_PRESET: %w", err)
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// RequireConfluence checks the settings needed to talk to the wiki.
func (c *Config) RequireConfluence() error {
	var missing []string
	if c.ConfluenceURL == "" {
		missing = append(missing, "CONFLUENCE_URL")
	}
	if c.ConfluenceUsername == "" {
		missing = append(missing, "CONFLUENCE_USERNAME")
	}
	if c.ConfluenceAPIToken == "" {
		missing = append(missing, "CONFLUENCE_API_TOKEN")
	}
	if c.ConfluenceSpace == "" {
		missing = append(missing, "CONFLUENCE_SPACE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Lexicon loads the lexicon file named by LEXICON_PATH, or an empty lexicon.
func (c *Config) Lexicon() (matcher.Lexicon, error) {
	if c.LexiconPath == "" {
		return matcher.Lexicon{}, nil
	}
	return matcher.LoadLexicon(c.LexiconPath)
}

// NewLogger builds the process logger for the configured level and format.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// ParseLogLevel converts a level name such as "debug" or "WARN" into a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.New("LOG_LEVEL must be debug, info, warn or error")
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
