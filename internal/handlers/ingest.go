package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"graphrag/internal/contextutil"
	"graphrag/internal/ingest"
)

// IngestHandler handles HTTP requests for triggering folder ingestion.
type IngestHandler struct {
	ingestor   *ingest.Ingestor
	docsFolder string
}

// NewIngestHandler creates a new IngestHandler. docsFolder is the default
// folder when the request does not name one.
func NewIngestHandler(ingestor *ingest.Ingestor, docsFolder string) *IngestHandler {
	return &IngestHandler{
		ingestor:   ingestor,
		docsFolder: docsFolder,
	}
}

// IngestRequest represents the HTTP request payload for ingestion.
//
// swagger:model IngestRequest
type IngestRequest struct {
	// Folder to ingest. Defaults to the configured docs folder.
	Folder string `json:"folder,omitempty"`
}

// ServeHTTP handles HTTP requests for triggering folder ingestion.
//
// Runs a full incremental pass over the folder: unchanged sections are
// skipped, changed ones re-embedded and re-written, files deleted from disk
// are tombstoned from both stores. Only one ingestion runs at a time.
//
// swagger:route POST /api/ingest ingestFolder
//
// # Trigger folder ingestion
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Ingestion summary
//	'409':
//	  description: Another ingestion run is already in progress
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Ingestion failed
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// The body is optional; an empty body means the default folder.
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = h.docsFolder
	}

	summary, err := h.ingestor.IngestFolder(ctx, folder)
	if err != nil {
		if errors.Is(err, ingest.ErrBusy) {
			logger.WarnContext(ctx, "ingestion already in progress")
			writeError(w, http.StatusConflict, "Ingestion already in progress")
			return
		}
		logger.ErrorContext(ctx, "ingestion failed", "folder", folder, "error", err)
		writeError(w, http.StatusInternalServerError, "Ingestion failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
