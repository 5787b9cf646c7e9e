// Package app assembles the ingestion and retrieval stack from
// configuration. Both the API server and the management CLI wire through
// here so store selection and degraded-mode behavior stay identical.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"graphrag/internal/chunker"
	"graphrag/internal/config"
	"graphrag/internal/docparse"
	"graphrag/internal/embedding"
	"graphrag/internal/generation"
	"graphrag/internal/graphstore"
	"graphrag/internal/ingest"
	"graphrag/internal/retrieval"
	"graphrag/internal/tracker"
	"graphrag/internal/vectorstore"
)

// App holds the wired components for one process.
type App struct {
	Config    *config.Config
	Vectors   vectorstore.VectorStore
	Graph     graphstore.GraphStore // nil when off or unreachable
	Gate      *embedding.Gate
	Tracker   *tracker.Tracker
	Ingestor  *ingest.Ingestor
	Retriever retrieval.Retriever
	Generator *generation.Generator
}

// NewLogger builds the process logger from the configured level and format
// and installs it as the slog default.
func NewLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Build wires every component from cfg. The vector store must be reachable;
// a graph store that cannot be opened is logged and dropped so the process
// runs degraded, matching the ingestor's best-effort graph contract.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	vectors, err := openVectors(cfg)
	if err != nil {
		return nil, err
	}
	if err := vectors.EnsureCollection(ctx, cfg.QdrantCollection, embedding.Dimension); err != nil {
		return nil, fmt.Errorf("failed to ensure collection %q: %w", cfg.QdrantCollection, err)
	}
	logger.Info("vector store ready", "store", cfg.VectorStore, "collection", cfg.QdrantCollection)

	graph := openGraph(ctx, cfg, logger)

	var provider embedding.Provider
	if cfg.GeminiAPIKey != "" {
		provider = embedding.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiEmbedModel)
		logger.Info("embedding provider configured", "model", cfg.GeminiEmbedModel)
	} else {
		logger.Warn("no API key set, embeddings use deterministic fallback vectors")
	}
	gate := embedding.NewGate(provider, cfg.EmbedWorkers, logger)

	track := tracker.New(cfg.CachePath, logger)
	track.Load()

	ingestor := ingest.NewIngestor(
		docparse.New(),
		track,
		chunker.New(cfg.MaxTokens, logger),
		gate,
		vectors,
		graph,
		cfg.QdrantCollection,
	)

	retriever := retrieval.New(gate, vectors, graph, cfg.QdrantCollection, retrieval.Options{
		TopK:           cfg.TopK,
		ScoreThreshold: cfg.ScoreThreshold,
	})

	generator := generation.NewGenerator(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiChatModel)

	return &App{
		Config:    cfg,
		Vectors:   vectors,
		Graph:     graph,
		Gate:      gate,
		Tracker:   track,
		Ingestor:  ingestor,
		Retriever: retriever,
		Generator: generator,
	}, nil
}

// Close releases store connections. Safe to call on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.Graph != nil {
		if err := a.Graph.Close(ctx); err != nil {
			slog.Warn("failed to close graph store", "error", err)
		}
	}
}

func openVectors(cfg *config.Config) (vectorstore.VectorStore, error) {
	switch cfg.VectorStore {
	case config.VectorStoreMemory:
		return vectorstore.NewMemoryStore(), nil
	default:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create vector store client: %w", err)
		}
		return store, nil
	}
}

// openGraph returns nil rather than an error: graph writes are best-effort
// everywhere else, so an unreachable graph store degrades the process
// instead of stopping it.
func openGraph(ctx context.Context, cfg *config.Config, logger *slog.Logger) graphstore.GraphStore {
	var (
		graph graphstore.GraphStore
		err   error
	)
	switch cfg.GraphStore {
	case config.GraphStoreOff:
		logger.Info("graph store disabled")
		return nil
	case config.GraphStoreSQLite:
		graph, err = graphstore.NewSQLiteStore(cfg.SQLitePath)
	default:
		graph, err = graphstore.NewNeo4jStore(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	}
	if err != nil {
		logger.Warn("failed to open graph store, continuing without graph", "store", cfg.GraphStore, "error", err)
		return nil
	}
	if err := graph.EnsureSchema(ctx); err != nil {
		logger.Warn("failed to ensure graph schema, continuing without graph", "store", cfg.GraphStore, "error", err)
		if cerr := graph.Close(ctx); cerr != nil {
			logger.Warn("failed to close graph store", "error", cerr)
		}
		return nil
	}
	logger.Info("graph store ready", "store", cfg.GraphStore)
	return graph
}
