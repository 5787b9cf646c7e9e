package handlers

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"graphrag/internal/chunker"
	"graphrag/internal/docparse"
	"graphrag/internal/embedding"
	"graphrag/internal/graphstore"
	"graphrag/internal/ingest"
	"graphrag/internal/tracker"
	"graphrag/internal/vectorstore"
)

const testCollection = "test_chunks"

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	track := tracker.New(filepath.Join(t.TempDir(), "cache.json"), slog.Default())
	track.Load()
	return track
}

func newMemoryStore(t *testing.T) *vectorstore.MemoryStore {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	if err := store.EnsureCollection(context.Background(), testCollection, embedding.Dimension); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
	return store
}

func newTestIngestor(t *testing.T, track *tracker.Tracker, vectors vectorstore.VectorStore, graph graphstore.GraphStore) *ingest.Ingestor {
	t.Helper()
	return ingest.NewIngestor(
		docparse.New(),
		track,
		chunker.New(800, slog.Default()),
		embedding.NewGate(nil, 2, slog.Default()),
		vectors,
		graph,
		testCollection,
	)
}
