package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeCandidate(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
}

const validSuiteJSON = `{
	"query": "echoed by the model",
	"test_cases": [
		{
			"title": "Login succeeds with valid credentials",
			"summary": "Happy path login",
			"test_type": "functional",
			"priority": "high",
			"labels": ["auth"],
			"steps": [
				{"action": "Submit credentials", "data": "user/pass", "expected_result": "Session created"}
			],
			"expected_result": "User is logged in",
			"components": ["auth"]
		}
	],
	"total_count": 99
}`

func TestNewGenerator(t *testing.T) {
	g := NewGenerator("http://localhost:9999", "test-key", "test-model")
	if g == nil {
		t.Fatal("NewGenerator() returned nil")
	}
	if g.BaseURL != "http://localhost:9999" {
		t.Errorf("NewGenerator() BaseURL = %v, want http://localhost:9999", g.BaseURL)
	}
	if g.Model != "test-model" {
		t.Errorf("NewGenerator() Model = %v, want test-model", g.Model)
	}
	if g.client == nil {
		t.Error("NewGenerator() client should not be nil")
	}
}

func TestGenerator_Generate_OfflineMode(t *testing.T) {
	g := NewGenerator("http://localhost:9999", "", "test-model")

	suite, err := g.Generate(context.Background(), "user login", "Source: a.md\nSection: Auth\nContent: Login flow.")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if suite.Query != "user login" {
		t.Errorf("Query = %v, want user login", suite.Query)
	}
	if suite.TotalCount != 3 || len(suite.TestCases) != 3 {
		t.Fatalf("TotalCount/cases = %d/%d, want 3/3", suite.TotalCount, len(suite.TestCases))
	}
	if suite.TestCases[0].TestType != TestTypeGeneric {
		t.Errorf("first template case TestType = %v, want %v", suite.TestCases[0].TestType, TestTypeGeneric)
	}
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name         string
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantCases    int
		wantTemplate bool
	}{
		{
			name: "successful generation",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1beta/models/test-model:generateContent" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("key") != "test-key" {
					t.Error("missing key query parameter")
				}
				writeCandidate(w, "```json\n"+validSuiteJSON+"\n```")
			},
			wantCases: 1,
		},
		{
			name: "unparseable text falls back to template",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				writeCandidate(w, "I cannot produce JSON today.")
			},
			wantCases:    3,
			wantTemplate: true,
		},
		{
			name: "server error falls back to template",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			wantCases:    3,
			wantTemplate: true,
		},
		{
			name: "no candidates falls back to template",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"candidates": []}`))
			},
			wantCases:    3,
			wantTemplate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			g := NewGenerator(server.URL, "test-key", "test-model")
			suite, err := g.Generate(context.Background(), "user login", "context")
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if suite.Query != "user login" {
				t.Errorf("Query = %v, want user login", suite.Query)
			}
			if len(suite.TestCases) != tt.wantCases {
				t.Errorf("cases = %d, want %d", len(suite.TestCases), tt.wantCases)
			}
			if suite.TotalCount != len(suite.TestCases) {
				t.Errorf("TotalCount = %d, want %d", suite.TotalCount, len(suite.TestCases))
			}
			if tt.wantTemplate && suite.TestCases[0].TestType != TestTypeGeneric {
				t.Errorf("template first case TestType = %v, want %v", suite.TestCases[0].TestType, TestTypeGeneric)
			}
			if !tt.wantTemplate && suite.TestCases[0].Title != "Login succeeds with valid credentials" {
				t.Errorf("parsed case Title = %v", suite.TestCases[0].Title)
			}
		})
	}
}

func TestGenerator_Generate_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeCandidate(w, validSuiteJSON)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGenerator(server.URL, "test-key", "test-model")
	_, err := g.Generate(ctx, "user login", "context")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}
