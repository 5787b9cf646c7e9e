package handlers

import (
	"net/http"

	"graphrag/internal/contextutil"
	"graphrag/internal/tracker"
)

// CacheStatusHandler reports the section cache state.
type CacheStatusHandler struct {
	tracker *tracker.Tracker
}

// NewCacheStatusHandler creates a new CacheStatusHandler.
func NewCacheStatusHandler(track *tracker.Tracker) *CacheStatusHandler {
	return &CacheStatusHandler{tracker: track}
}

// ServeHTTP handles HTTP requests for cache status.
//
// swagger:route GET /api/cache/status cacheStatus
//
// # Section cache status
//
// Returns per-file section counts and the last update time of the change
// tracking cache.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Cache statistics
func (h *CacheStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, h.tracker.Stats())
}

// CacheResetHandler clears the section cache.
type CacheResetHandler struct {
	tracker *tracker.Tracker
}

// NewCacheResetHandler creates a new CacheResetHandler.
func NewCacheResetHandler(track *tracker.Tracker) *CacheResetHandler {
	return &CacheResetHandler{tracker: track}
}

// CacheResetResponse confirms a cache reset.
type CacheResetResponse struct {
	Message string `json:"message"`
}

// ServeHTTP handles HTTP requests for cache reset. After a reset the next
// ingestion run reprocesses every section of every document.
//
// swagger:route POST /api/cache/reset cacheReset
//
// # Reset the section cache
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Cache cleared
//	'500':
//	  description: Reset failed
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CacheResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := h.tracker.Reset(); err != nil {
		logger.ErrorContext(ctx, "failed to reset cache", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset cache")
		return
	}

	logger.InfoContext(ctx, "section cache reset")
	writeJSON(w, http.StatusOK, CacheResetResponse{
		Message: "Section cache cleared. The next ingestion run will reprocess all documents.",
	})
}
