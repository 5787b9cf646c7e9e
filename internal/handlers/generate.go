package handlers

import (
	"encoding/json"
	"net/http"

	"graphrag/internal/contextutil"
	"graphrag/internal/generation"
	"graphrag/internal/retrieval"
)

// GenerateTestsHandler handles HTTP requests for test suite generation.
type GenerateTestsHandler struct {
	retriever retrieval.Retriever
	generator *generation.Generator
}

// NewGenerateTestsHandler creates a new GenerateTestsHandler.
func NewGenerateTestsHandler(retriever retrieval.Retriever, generator *generation.Generator) *GenerateTestsHandler {
	return &GenerateTestsHandler{
		retriever: retriever,
		generator: generator,
	}
}

// GenerateTestsRequest represents the HTTP request payload for test
// generation.
//
// swagger:model GenerateTestsRequest
type GenerateTestsRequest struct {
	// Query describing the feature to generate tests for
	Query string `json:"query"`

	// TopK overrides how many vector hits seed retrieval (optional)
	TopK int `json:"top_k,omitempty"`
}

// GenerateTestsResponse represents the HTTP response payload for test
// generation: the generated suite plus retrieval provenance.
//
// swagger:model GenerateTestsResponse
type GenerateTestsResponse struct {
	generation.TestSuite

	// ChunksUsed is how many retrieved chunks grounded the generation
	ChunksUsed int `json:"chunks_used"`

	// Sources lists the documents the chunks came from
	Sources []string `json:"sources"`
}

// ServeHTTP handles HTTP requests for test suite generation.
//
// Retrieves context for the query through hybrid retrieval, then asks the
// generator for a structured test suite. Generation always answers: model
// failures degrade to the deterministic template suite.
//
// swagger:route POST /api/generate-tests generateTests
//
// # Generate test cases for a query
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// parameters:
//   - in: body
//     name: body
//     required: true
//     schema:
//     "$ref": "#/definitions/GenerateTestsRequest"
//
// responses:
//
//	'200':
//	  description: Generated test suite with retrieval provenance
//	  schema:
//	    "$ref": "#/definitions/GenerateTestsResponse"
//	'400':
//	  description: Bad request (missing query)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Vector store unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *GenerateTestsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req GenerateTestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	// Bound user-provided TopK. Zero means the configured default.
	if req.TopK < 0 {
		req.TopK = 0
	}
	if req.TopK > 20 {
		req.TopK = 20
	}

	result, err := h.retriever.Retrieve(ctx, req.Query, retrieval.Options{TopK: req.TopK})
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "query", req.Query, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	// A query with no matching documentation still gets a suite; the
	// generator works from an empty context block.
	suite, err := h.generator.Generate(ctx, req.Query, retrieval.ContextBlock(result.Chunks))
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "query", req.Query, "error", err)
		writeError(w, http.StatusInternalServerError, "Generation failed")
		return
	}

	writeJSON(w, http.StatusOK, GenerateTestsResponse{
		TestSuite:  suite,
		ChunksUsed: len(result.Chunks),
		Sources:    sourceFiles(result.Chunks),
	})
}

// sourceFiles lists the unique document names behind the chunks, in
// retrieval order.
func sourceFiles(chunks []retrieval.RetrievedChunk) []string {
	seen := make(map[string]bool, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.FileName == "" || seen[chunk.FileName] {
			continue
		}
		seen[chunk.FileName] = true
		sources = append(sources, chunk.FileName)
	}
	return sources
}
