package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"graphrag/internal/embedding"
	"graphrag/internal/generation"
	"graphrag/internal/retrieval"
	"graphrag/internal/vectorstore"
	vsmocks "graphrag/internal/vectorstore/mocks"
)

func offlineGenerator() *generation.Generator {
	return generation.NewGenerator("http://localhost:0", "", "test-model")
}

func TestGenerateTestsHandler(t *testing.T) {
	store := newMemoryStore(t)

	// Seed one chunk that the query will match exactly through the
	// fallback embedding.
	err := store.Upsert(context.Background(), testCollection, []vectorstore.Point{
		{
			ID:  "a.md_0_0",
			Vec: embedding.FallbackVector("user login"),
			Meta: map[string]any{
				"chunk_id":      "a.md_0_0",
				"text":          "Login requires a username and password.",
				"file_name":     "a.md",
				"section_title": "Auth",
			},
		},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	gate := embedding.NewGate(nil, 2, nil)
	handler := NewGenerateTestsHandler(
		retrieval.New(gate, store, nil, testCollection, retrieval.Options{}),
		offlineGenerator(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-tests", strings.NewReader(`{"query": "user login"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp GenerateTestsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Query != "user login" {
		t.Errorf("Query = %v, want user login", resp.Query)
	}
	if resp.TotalCount == 0 || len(resp.TestCases) == 0 {
		t.Error("response should contain test cases")
	}
	if resp.ChunksUsed != 1 {
		t.Errorf("ChunksUsed = %d, want 1", resp.ChunksUsed)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "a.md" {
		t.Errorf("Sources = %v, want [a.md]", resp.Sources)
	}
}

func TestGenerateTestsHandler_NoMatchesStillAnswers(t *testing.T) {
	store := newMemoryStore(t)
	gate := embedding.NewGate(nil, 2, nil)
	handler := NewGenerateTestsHandler(
		retrieval.New(gate, store, nil, testCollection, retrieval.Options{}),
		offlineGenerator(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-tests", strings.NewReader(`{"query": "undocumented feature"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}

	var resp GenerateTestsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ChunksUsed != 0 {
		t.Errorf("ChunksUsed = %d, want 0", resp.ChunksUsed)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", resp.Sources)
	}
	if len(resp.TestCases) == 0 {
		t.Error("template suite should still produce test cases")
	}
}

func TestGenerateTestsHandler_MissingQuery(t *testing.T) {
	store := newMemoryStore(t)
	gate := embedding.NewGate(nil, 2, nil)
	handler := NewGenerateTestsHandler(
		retrieval.New(gate, store, nil, testCollection, retrieval.Options{}),
		offlineGenerator(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-tests", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateTestsHandler_InvalidBody(t *testing.T) {
	store := newMemoryStore(t)
	gate := embedding.NewGate(nil, 2, nil)
	handler := NewGenerateTestsHandler(
		retrieval.New(gate, store, nil, testCollection, retrieval.Options{}),
		offlineGenerator(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-tests", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateTestsHandler_VectorStoreDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := vsmocks.NewMockVectorStore(ctrl)
	mockStore.EXPECT().
		Search(gomock.Any(), testCollection, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	gate := embedding.NewGate(nil, 2, nil)
	handler := NewGenerateTestsHandler(
		retrieval.New(gate, mockStore, nil, testCollection, retrieval.Options{}),
		offlineGenerator(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-tests", strings.NewReader(`{"query": "user login"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %v, want %v", w.Code, http.StatusServiceUnavailable)
	}
}
