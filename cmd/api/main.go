package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"time"

	"erclink/internal/config"
	"erclink/internal/confluence"
	"erclink/internal/http"
	"erclink/internal/service"
	"erclink/internal/storage"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API matches dataset variable labels to report headings and rewrites
// Confluence dataset pages so each variable links to its report section.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: ERC Link API
//   description: |
//     Heading matching and Confluence link maintenance for ERC dataset pages.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

// cachePruneInterval is how often expired match cache rows are removed.
const cachePruneInterval = time.Hour

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(cfg.NewLogger())
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	lexicon, err := cfg.Lexicon()
	if err != nil {
		log.Fatalf("Failed to load lexicon: %v", err)
	}

	// Create repository instances
	cacheRepo := storage.NewMatchCacheRepo(db)
	runRepo := storage.NewLinkRunRepo(db)

	matchService, err := service.NewMatchService(cacheRepo, lexicon, cfg.MatchPreset)
	if err != nil {
		log.Fatalf("Failed to create match service: %v", err)
	}
	slog.Info("Match service initialized", "preset", cfg.MatchPreset, "lexicon", cfg.LexiconPath)

	deps := &http.Deps{
		MatchService: matchService,
		DB:           db,
	}

	// Link routes need wiki credentials; the API still serves matching without them.
	if err := cfg.RequireConfluence(); err != nil {
		slog.Warn("Confluence not configured, link routes disabled", "error", err)
	} else {
		client := confluence.NewClient(cfg.ConfluenceURL, cfg.ConfluenceUsername, cfg.ConfluenceAPIToken)
		linkService, err := service.NewLinkService(client, runRepo, lexicon)
		if err != nil {
			log.Fatalf("Failed to create link service: %v", err)
		}
		deps.LinkService = linkService
		slog.Info("Link service initialized", "base_url", cfg.ConfluenceURL, "space", cfg.ConfluenceSpace)
	}

	router := http.NewRouter(deps)

	if cfg.MatchCacheTTL > 0 {
		go pruneMatchCache(context.Background(), cacheRepo, cfg.MatchCacheTTL)
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// pruneMatchCache removes cache rows older than ttl until ctx is done.
func pruneMatchCache(ctx context.Context, repo *storage.MatchCacheRepo, ttl time.Duration) {
	ticker := time.NewTicker(cachePruneInterval)
	defer ticker.Stop()

	for {
		n, err := repo.DeleteBefore(ctx, time.Now().Add(-ttl))
		if err != nil {
			slog.Error("Match cache prune failed", "error", err)
		} else if n > 0 {
			slog.Info("Match cache pruned", "removed", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
