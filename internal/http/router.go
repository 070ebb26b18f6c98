package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notegraph/internal/handlers"
	"notegraph/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Graph service.GraphService
	// DB is pinged by the health check.
	DB handlers.Pinger
	// Sync is nil when search is disabled.
	Sync           handlers.SyncMonitor
	Metrics        http.Handler
	AllowedOrigins []string
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS(deps.AllowedOrigins))

	noteHandler := handlers.NewNoteHandler(deps.Graph, deps.MaxUploadBytes)
	edgeHandler := handlers.NewEdgeHandler(deps.Graph)
	searchHandler := handlers.NewSearchHandler(deps.Graph)

	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.Sync))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", noteHandler.List)
		r.Post("/", noteHandler.Create)
		r.Post("/upload", noteHandler.Upload)

		r.Route("/edges", func(r chi.Router) {
			r.Get("/", edgeHandler.List)
			r.Post("/", edgeHandler.Create)
			r.Delete("/{id}", edgeHandler.Delete)
			r.Get("/note/{id}", edgeHandler.ListForNote)
		})

		r.Get("/search", searchHandler.Search)
		r.Post("/search/reindex", searchHandler.Reindex)

		r.Get("/{id}", noteHandler.Get)
		r.Put("/{id}", noteHandler.Update)
		r.Delete("/{id}", noteHandler.Delete)
		r.Get("/{id}/render", noteHandler.Render)
	})

	return r
}
