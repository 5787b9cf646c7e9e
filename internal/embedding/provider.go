// Package embedding turns text into vectors, with a deterministic local
// fallback so ingestion never blocks on the embedding service.
package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks graphrag/internal/embedding Provider

import "context"

// Dimension is the vector size used across the system. The embedding
// service, the fallback vectors, and both stores all agree on it.
const Dimension = 768

// Provider generates embedding vectors for text.
type Provider interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the vector size this provider produces.
	Dimension() int
}
