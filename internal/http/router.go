package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"erclink/internal/handlers"
	"erclink/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	MatchService service.MatchService
	// LinkService is optional; link routes are only mounted when it is set.
	LinkService service.LinkService
	DB          handlers.Pinger
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	matchHandler := handlers.NewMatchHandler(deps.MatchService)
	presetsHandler := handlers.NewPresetsHandler(deps.MatchService)
	headingsHandler := handlers.NewHeadingsHandler()
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/match", matchHandler)
		r.Method(http.MethodPost, "/headings", headingsHandler)
		r.Method(http.MethodGet, "/presets", presetsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)

		if deps.LinkService != nil {
			r.Method(http.MethodPost, "/links", handlers.NewLinksHandler(deps.LinkService))
			r.Method(http.MethodGet, "/runs", handlers.NewRunsHandler(deps.LinkService))
		}
	})

	return r
}
