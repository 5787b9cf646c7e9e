package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"DOCS_FOLDER", "CACHE_PATH", "QDRANT_URL", "QDRANT_COLLECTION",
	"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD",
	"GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_EMBED_MODEL", "GEMINI_CHAT_MODEL",
	"VECTOR_STORE", "GRAPH_STORE", "SQLITE_PATH", "HTTP_ADDR",
	"LOG_LEVEL", "LOG_FORMAT", "EMBED_WORKERS",
	"SCORE_THRESHOLD", "TOP_K", "MAX_TOKENS",
}

// clearEnv snapshots and clears the config env vars, restoring them on
// cleanup so tests don't leak into each other.
func clearEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string)
	for _, key := range envVars {
		original[key] = os.Getenv(key)
		unsetEnv(key)
	}
	t.Cleanup(func() {
		for key, value := range original {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.DocsFolder == "docs" &&
					cfg.QdrantURL == "http://localhost:6333" &&
					cfg.QdrantCollection == "doc_chunks" &&
					cfg.Neo4jURI == "bolt://localhost:7687" &&
					cfg.VectorStore == VectorStoreQdrant &&
					cfg.GraphStore == GraphStoreNeo4j &&
					cfg.HTTPAddr == ":8000" &&
					cfg.EmbedWorkers == 4 &&
					cfg.TopK == 5 &&
					cfg.MaxTokens == 800 &&
					cfg.ScoreThreshold == 0.6
			},
		},
		{
			name: "overrides",
			setupEnv: func(t *testing.T) {
				dir := t.TempDir()
				setEnv("CACHE_PATH", filepath.Join(dir, "cache.json"))
				setEnv("SQLITE_PATH", filepath.Join(dir, "graph.db"))
				setEnv("VECTOR_STORE", "memory")
				setEnv("GRAPH_STORE", "sqlite")
				setEnv("TOP_K", "10")
				setEnv("SCORE_THRESHOLD", "0.4")
				setEnv("HTTP_ADDR", ":9090")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.VectorStore == VectorStoreMemory &&
					cfg.GraphStore == GraphStoreSQLite &&
					cfg.TopK == 10 &&
					cfg.ScoreThreshold == 0.4 &&
					cfg.HTTPAddr == ":9090"
			},
		},
		{
			name: "invalid vector store",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("VECTOR_STORE", "pinecone")
			},
			wantErr: true,
		},
		{
			name: "invalid graph store",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("GRAPH_STORE", "dgraph")
			},
			wantErr: true,
		},
		{
			name: "graph store off",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("GRAPH_STORE", "off")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.GraphStore == GraphStoreOff
			},
		},
		{
			name: "invalid TOP_K",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("TOP_K", "many")
			},
			wantErr: true,
		},
		{
			name: "zero MAX_TOKENS",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("MAX_TOKENS", "0")
			},
			wantErr: true,
		},
		{
			name: "out of range SCORE_THRESHOLD",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("SCORE_THRESHOLD", "1.5")
			},
			wantErr: true,
		},
		{
			name: "negative EMBED_WORKERS",
			setupEnv: func(t *testing.T) {
				setEnv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.json"))
				setEnv("EMBED_WORKERS", "-2")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config check failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectories(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	cachePath := filepath.Join(dir, "state", "cache.json")
	sqlitePath := filepath.Join(dir, "graph", "graph.db")
	setEnv("CACHE_PATH", cachePath)
	setEnv("SQLITE_PATH", sqlitePath)
	setEnv("GRAPH_STORE", "sqlite")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(filepath.Dir(cachePath)); err != nil {
		t.Errorf("cache directory should exist: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(sqlitePath)); err != nil {
		t.Errorf("graph directory should exist: %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	clearEnv(t)

	if got := getEnv("DOCS_FOLDER", "fallback"); got != "fallback" {
		t.Errorf("getEnv() unset = %v, want fallback", got)
	}
	setEnv("DOCS_FOLDER", "specs")
	if got := getEnv("DOCS_FOLDER", "fallback"); got != "specs" {
		t.Errorf("getEnv() set = %v, want specs", got)
	}
}
