package handlers

import "net/http"

// WelcomeHandler handles the root endpoint.
type WelcomeHandler struct{}

// NewWelcomeHandler creates a new WelcomeHandler.
func NewWelcomeHandler() *WelcomeHandler {
	return &WelcomeHandler{}
}

// WelcomeResponse lists the service's endpoints.
type WelcomeResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// ServeHTTP handles the root endpoint.
func (h *WelcomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, WelcomeResponse{
		Message: "Welcome to the GraphRAG Test Generator!",
		Endpoints: map[string]string{
			"health":         "/api/health",
			"ingest":         "/api/ingest",
			"cache_status":   "/api/cache/status",
			"cache_reset":    "/api/cache/reset",
			"generate_tests": "/api/generate-tests",
		},
	})
}
