package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks graphrag/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrDimensionMismatch is returned when a collection exists with a different
// vector size than the one requested.
var ErrDimensionMismatch = errors.New("vector size mismatch")

// Point represents a vector point with payload metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a scored hit from a similarity search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// SearchOptions bounds a similarity search.
type SearchOptions struct {
	// Limit caps the number of hits. Must be positive.
	Limit int
	// ScoreThreshold excludes hits scoring below it. Zero disables the cut.
	ScoreThreshold float32
	// Filters restricts hits by exact payload match, e.g. file_name.
	Filters map[string]any
}

// VectorStore defines the interface for the vector index. The index is the
// authoritative store during ingestion: a write error aborts the file and
// keeps the tracker cache uncommitted.
type VectorStore interface {
	// EnsureCollection creates the collection if missing and validates the
	// vector size if it already exists.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search.
	Search(ctx context.Context, collection string, query []float32, opts SearchOptions) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteByFilter removes every point whose payload matches the filters.
	DeleteByFilter(ctx context.Context, collection string, filters map[string]any) error

	// Count returns the number of points in the collection.
	Count(ctx context.Context, collection string) (uint64, error)
}
