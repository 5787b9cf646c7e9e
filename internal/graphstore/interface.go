// Package graphstore records the structural relationships between documents
// and their chunks (containment, reading order, semantic similarity) and
// serves neighborhood expansion for hybrid retrieval. Graph writes are
// best-effort from the ingestor's point of view: the vector store remains
// the source of truth.
package graphstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_graph_store.go -package=mocks graphrag/internal/graphstore GraphStore

import (
	"context"

	"graphrag/internal/document"
)

const (
	// SimilarityThreshold is the minimum cosine similarity for a
	// SEMANTICALLY_SIMILAR edge between chunks of different documents.
	SimilarityThreshold float32 = 0.8

	// MaxHops caps neighborhood expansion depth. The hop count is formatted
	// into the traversal query, so it must be validated, not parameterized.
	MaxHops = 5
)

// Neighbor is a chunk reached through graph expansion. It carries enough
// metadata to render a context block without another store round-trip.
type Neighbor struct {
	ChunkID      string
	Text         string
	FileName     string
	SectionTitle string
}

// Stats summarizes graph contents for health and status reporting.
type Stats struct {
	Documents int64 `json:"documents"`
	Chunks    int64 `json:"chunks"`
	Relations int64 `json:"relations"`
}

// GraphStore defines the interface for graph storage operations.
type GraphStore interface {
	// EnsureSchema creates constraints and indexes. Idempotent.
	EnsureSchema(ctx context.Context) error
	// UpsertChunks merges the document node, the chunk nodes with their
	// BELONGS_TO edges, and rebuilds the document's NEXT_SECTION chain in
	// reading order. Re-running with the same input is a no-op.
	UpsertChunks(ctx context.Context, doc document.Document, chunks []document.Chunk) error
	// LinkSimilar creates SEMANTICALLY_SIMILAR edges between the given
	// chunks and stored chunks of other documents whose cosine similarity
	// meets SimilarityThreshold. Returns the number of edges written.
	LinkSimilar(ctx context.Context, chunks []document.Chunk) (int, error)
	// DeleteSections removes all chunks of the named file that belong to
	// the given section IDs, along with their edges.
	DeleteSections(ctx context.Context, fileName string, sectionIDs []int) error
	// DeleteDocument removes the document node and all of its chunks.
	DeleteDocument(ctx context.Context, fileName string) error
	// Expand returns chunks within hops (1..MaxHops) of the seed chunk IDs
	// over BELONGS_TO, NEXT_SECTION and SEMANTICALLY_SIMILAR edges,
	// excluding the seeds themselves.
	Expand(ctx context.Context, chunkIDs []string, hops int) ([]Neighbor, error)
	// Stats returns node and edge counts.
	Stats(ctx context.Context) (Stats, error)
	// Ping verifies connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
