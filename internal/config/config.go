// Package config loads application configuration from environment
// variables, with optional .env file support.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Store selector values.
const (
	VectorStoreQdrant = "qdrant"
	VectorStoreMemory = "memory"

	GraphStoreNeo4j  = "neo4j"
	GraphStoreSQLite = "sqlite"
	GraphStoreOff    = "off"
)

// Config holds all configuration for the application.
type Config struct {
	DocsFolder       string
	CachePath        string
	QdrantURL        string
	QdrantCollection string
	Neo4jURI         string
	Neo4jUser        string
	Neo4jPassword    string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiEmbedModel string
	GeminiChatModel  string
	VectorStore      string
	GraphStore       string
	SQLitePath       string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	EmbedWorkers     int
	ScoreThreshold   float32
	TopK             int
	MaxTokens        int
}

// Load reads configuration from environment variables and returns a Config
// struct. It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it is loaded
// first; environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		DocsFolder:       getEnv("DOCS_FOLDER", "docs"),
		CachePath:        getEnv("CACHE_PATH", filepath.Join("data", "section_cache.json")),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "doc_chunks"),
		Neo4jURI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiEmbedModel: getEnv("GEMINI_EMBED_MODEL", "embedding-001"),
		GeminiChatModel:  getEnv("GEMINI_CHAT_MODEL", "gemini-1.5-flash"),
		VectorStore:      getEnv("VECTOR_STORE", VectorStoreQdrant),
		GraphStore:       getEnv("GRAPH_STORE", GraphStoreNeo4j),
		SQLitePath:       getEnv("SQLITE_PATH", filepath.Join("data", "graph.db")),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8000"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.EmbedWorkers, err = getEnvInt("EMBED_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = getEnvInt("MAX_TOKENS", 800); err != nil {
		return nil, err
	}
	if cfg.ScoreThreshold, err = getEnvFloat("SCORE_THRESHOLD", 0.6); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directories up front so first-run writes don't fail.
	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if cfg.GraphStore == GraphStoreSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create graph directory: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.VectorStore {
	case VectorStoreQdrant, VectorStoreMemory:
	default:
		return fmt.Errorf("VECTOR_STORE must be %q or %q, got %q",
			VectorStoreQdrant, VectorStoreMemory, c.VectorStore)
	}

	switch c.GraphStore {
	case GraphStoreNeo4j, GraphStoreSQLite, GraphStoreOff:
	default:
		return fmt.Errorf("GRAPH_STORE must be %q, %q or %q, got %q",
			GraphStoreNeo4j, GraphStoreSQLite, GraphStoreOff, c.GraphStore)
	}

	if c.EmbedWorkers <= 0 {
		return fmt.Errorf("EMBED_WORKERS must be greater than 0")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be greater than 0")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be greater than 0")
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return fmt.Errorf("SCORE_THRESHOLD must be between 0 and 1")
	}
	return nil
}

// loadDotEnv loads a .env file from the current directory or the nearest
// parent that has one. Depth is capped so a stray deep working directory
// doesn't scan the whole filesystem.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

// getEnvFloat gets a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float32) (float32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return float32(f), nil
}
