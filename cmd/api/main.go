package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"graphrag/internal/app"
	"graphrag/internal/config"
	"graphrag/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API ingests design documents into a vector index and a knowledge graph,
// and generates structured test cases from the indexed content.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: GraphRAG Document API
//   description: |
//     Document ingestion and retrieval API. Markdown documents are split into
//     sections, diffed against a change cache, chunked, embedded and written
//     to a vector index and a knowledge graph. Retrieval combines vector
//     similarity with graph expansion to build context for test generation.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Debug("logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer a.Close(ctx)

	if err := os.MkdirAll(cfg.DocsFolder, 0755); err != nil {
		log.Fatalf("Failed to create docs folder: %v", err)
	}

	deps := &http.Deps{
		VectorStore: a.Vectors,
		GraphStore:  a.Graph,
		Tracker:     a.Tracker,
		Ingestor:    a.Ingestor,
		Retriever:   a.Retriever,
		Generator:   a.Generator,
		Collection:  cfg.QdrantCollection,
		DocsFolder:  cfg.DocsFolder,
	}
	router := http.NewRouter(deps)

	// Ingest existing documents and keep watching the folder after the
	// router is ready.
	go func() {
		ingestCtx := context.Background()
		slog.Info("starting initial ingestion", "folder", cfg.DocsFolder)
		summary, err := a.Ingestor.IngestFolder(ingestCtx, cfg.DocsFolder)
		if err != nil {
			slog.Error("initial ingestion failed", "error", err)
		} else {
			slog.Info("initial ingestion complete",
				"files", summary.Files,
				"processed", summary.Processed,
				"chunks", summary.ChunksWritten)
		}
		if err := a.Ingestor.Watch(ingestCtx, cfg.DocsFolder); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("folder watcher stopped", "error", err)
		}
	}()

	slog.Info("starting API server", "addr", cfg.HTTPAddr)
	if err := nethttp.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
