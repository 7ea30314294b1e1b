package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notes-explorer/internal/handlers"
	"notes-explorer/internal/service"
	"notes-explorer/internal/vault"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	NotesService service.NotesService
	Scanner      *vault.Scanner
	HealthChecks map[string]handlers.Checker
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.HealthChecks))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/topics", handlers.NewTopicsHandler(deps.NotesService))
		r.Method(http.MethodPost, "/query", handlers.NewQueryHandler(deps.NotesService))
		r.Method(http.MethodPost, "/ask", handlers.NewAskHandler(deps.NotesService))
		r.Method(http.MethodPost, "/ingest", handlers.NewIngestHandler(deps.NotesService))
	})

	if deps.Scanner != nil {
		r.Method(http.MethodGet, "/notes/*", handlers.NewNoteHandler(deps.Scanner))
	}

	return r
}
