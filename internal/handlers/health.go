package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"graphrag/internal/contextutil"
	"graphrag/internal/graphstore"
	"graphrag/internal/tracker"
	"graphrag/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        vectorstore.VectorStore
	graphStore         graphstore.GraphStore
	tracker            *tracker.Tracker
	collectionName     string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. graphStore may be nil when
// the graph store is disabled.
func NewHealthHandler(vectorStore vectorstore.VectorStore, graphStore graphstore.GraphStore, track *tracker.Tracker, collectionName string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		graphStore:         graphStore,
		tracker:            track,
		collectionName:     collectionName,
		healthCheckTimeout: 5 * time.Second,
	}
}

// VectorStats summarizes the vector collection for health reporting.
type VectorStats struct {
	// Points is the number of stored vector points
	Points uint64 `json:"points"`
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Section cache statistics
	Stats tracker.Stats `json:"stats"`

	// Vector collection statistics, present when the vector store is reachable
	Vectors *VectorStats `json:"vectors,omitempty"`

	// Graph store statistics, present when the graph store is reachable
	Graph *graphstore.Stats `json:"graph,omitempty"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// The vector store is the authoritative dependency: if it is unreachable the
// service reports unhealthy with 503. A failing graph store only degrades
// the status, matching the ingestion contract where graph writes are
// best-effort.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns the health status of the system including vector store, graph
// store and section cache statistics.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy or degraded
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is unhealthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	var vectorStats *VectorStats
	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
		if count, err := h.vectorStore.Count(checkCtx, h.collectionName); err == nil {
			vectorStats = &VectorStats{Points: count}
		}
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	var graphStats *graphstore.Stats
	switch {
	case h.graphStore == nil:
		checks["graph_store"] = "off"
	case h.checkGraphStore(checkCtx, logger):
		checks["graph_store"] = "ok"
		if stats, err := h.graphStore.Stats(checkCtx); err == nil {
			graphStats = &stats
		}
	default:
		checks["graph_store"] = "error"
		issues = append(issues, "graph_store_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if checks["graph_store"] == "error" {
		status = "degraded"
	}
	if checks["vector_store"] == "error" {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Stats:     h.tracker.Stats(),
		Vectors:   vectorStats,
		Graph:     graphStats,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	writeJSON(w, httpStatus, response)
}

// checkVectorStore checks if the vector store is accessible.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	exists, err := h.vectorStore.CollectionExists(ctx, h.collectionName)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist", "collection", h.collectionName)
		return false
	}
	return true
}

// checkGraphStore checks if the graph store is accessible.
func (h *HealthHandler) checkGraphStore(ctx context.Context, logger *slog.Logger) bool {
	if err := h.graphStore.Ping(ctx); err != nil {
		logger.WarnContext(ctx, "graph store health check failed", "error", err)
		return false
	}
	return true
}
