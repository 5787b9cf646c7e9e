// Package http wires the service's endpoints into a chi router with the
// shared middleware stack.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"graphrag/internal/generation"
	"graphrag/internal/graphstore"
	"graphrag/internal/handlers"
	"graphrag/internal/ingest"
	"graphrag/internal/retrieval"
	"graphrag/internal/tracker"
	"graphrag/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	VectorStore vectorstore.VectorStore
	GraphStore  graphstore.GraphStore // nil when the graph store is off
	Tracker     *tracker.Tracker
	Ingestor    *ingest.Ingestor
	Retriever   retrieval.Retriever
	Generator   *generation.Generator
	Collection  string
	DocsFolder  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Request-scoped logger and CORS
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	r.Method(http.MethodGet, "/", handlers.NewWelcomeHandler())

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health",
			handlers.NewHealthHandler(deps.VectorStore, deps.GraphStore, deps.Tracker, deps.Collection))
		r.Method(http.MethodPost, "/ingest",
			handlers.NewIngestHandler(deps.Ingestor, deps.DocsFolder))
		r.Method(http.MethodGet, "/cache/status",
			handlers.NewCacheStatusHandler(deps.Tracker))
		r.Method(http.MethodPost, "/cache/reset",
			handlers.NewCacheResetHandler(deps.Tracker))
		r.Method(http.MethodPost, "/generate-tests",
			handlers.NewGenerateTestsHandler(deps.Retriever, deps.Generator))
	})

	return r
}
