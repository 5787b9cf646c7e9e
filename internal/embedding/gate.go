package embedding

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent embedding requests in EmbedAll.
const DefaultWorkers = 4

// Gate wraps a Provider with the deterministic fallback. Every Embed call
// returns a usable vector: provider failures degrade to fallback vectors
// instead of propagating.
type Gate struct {
	provider Provider
	workers  int
	logger   *slog.Logger
}

// NewGate creates a gate around the provider. A nil provider puts the gate
// in fallback-only mode (offline operation). workers <= 0 selects
// DefaultWorkers.
func NewGate(provider Provider, workers int, logger *slog.Logger) *Gate {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		provider: provider,
		workers:  workers,
		logger:   logger,
	}
}

// Embed returns the provider's vector for the text, or the fallback vector
// when the provider is absent or fails. The bool reports whether the
// fallback was used.
func (g *Gate) Embed(ctx context.Context, text string) ([]float32, bool) {
	if g.provider == nil {
		return FallbackVector(text), true
	}

	vec, err := g.provider.Embed(ctx, text)
	if err != nil {
		g.logger.Warn("embedding failed, using fallback vector", "error", err)
		return FallbackVector(text), true
	}
	if len(vec) != Dimension {
		g.logger.Warn("embedding has wrong size, using fallback vector",
			"size", len(vec), "expected", Dimension)
		return FallbackVector(text), true
	}
	return vec, false
}

// EmbedAll embeds a batch of texts with bounded parallelism, preserving
// input order. Individual failures degrade to fallback vectors; the second
// return value counts how many. Callers that care about cancellation should
// check ctx.Err after EmbedAll returns, since cancelled requests also
// degrade to fallbacks.
func (g *Gate) EmbedAll(ctx context.Context, texts []string) ([][]float32, int) {
	vectors := make([][]float32, len(texts))
	fellBack := make([]bool, len(texts))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for i, text := range texts {
		grp.Go(func() error {
			vectors[i], fellBack[i] = g.Embed(ctx, text)
			return nil
		})
	}
	_ = grp.Wait()

	count := 0
	for _, fb := range fellBack {
		if fb {
			count++
		}
	}
	return vectors, count
}
