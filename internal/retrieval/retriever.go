// Package retrieval implements hybrid retrieval: vector similarity search
// seeded into graph neighborhood expansion, merged into one ranked context
// set for generation.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"graphrag/internal/contextutil"
	"graphrag/internal/embedding"
	"graphrag/internal/graphstore"
	"graphrag/internal/vectorstore"
)

const (
	// DefaultTopK is how many vector hits seed the expansion.
	DefaultTopK = 5
	// DefaultScoreThreshold excludes weak vector hits from the seed set.
	DefaultScoreThreshold float32 = 0.6
	// DefaultHops is the default graph expansion depth.
	DefaultHops = 2
)

// Source values on RetrievedChunk.
const (
	SourceVector = "vector"
	SourceGraph  = "graph"
)

// Options bounds a retrieval run. Zero values take the defaults.
type Options struct {
	TopK           int
	ScoreThreshold float32
	Hops           int
}

// merged fills zero fields from the retriever's defaults, then from the
// package defaults, and clamps the result.
func (o Options) merged(defaults Options) Options {
	if o.TopK <= 0 {
		o.TopK = defaults.TopK
	}
	if o.ScoreThreshold <= 0 {
		o.ScoreThreshold = defaults.ScoreThreshold
	}
	if o.Hops <= 0 {
		o.Hops = defaults.Hops
	}
	return o.normalized()
}

func (o Options) normalized() Options {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.ScoreThreshold <= 0 {
		o.ScoreThreshold = DefaultScoreThreshold
	}
	if o.Hops <= 0 {
		o.Hops = DefaultHops
	}
	if o.Hops > graphstore.MaxHops {
		o.Hops = graphstore.MaxHops
	}
	return o
}

// RetrievedChunk is one chunk of context produced by retrieval. Vector hits
// carry their similarity score; chunks found only by graph expansion carry
// score 0 and Source "graph".
type RetrievedChunk struct {
	ChunkID      string  `json:"chunk_id"`
	Text         string  `json:"text"`
	FileName     string  `json:"file_name"`
	SectionTitle string  `json:"section_title"`
	Score        float32 `json:"score"`
	Source       string  `json:"source"`
}

// Result is the merged output of one retrieval run.
type Result struct {
	Query        string           `json:"query"`
	Chunks       []RetrievedChunk `json:"chunks"`
	VectorHits   int              `json:"vector_hits"`
	GraphFills   int              `json:"graph_fills"`
	UsedFallback bool             `json:"used_fallback"`
}

// Retriever produces ranked context for a query.
type Retriever interface {
	// Retrieve embeds the query, searches the vector index, expands the
	// hits through the graph and merges both into one ranked set.
	Retrieve(ctx context.Context, query string, opts Options) (Result, error)
}

// hybridRetriever implements Retriever over a vector store and an optional
// graph store.
type hybridRetriever struct {
	gate       *embedding.Gate
	vectors    vectorstore.VectorStore
	graph      graphstore.GraphStore
	collection string
	defaults   Options
}

// New creates a hybrid retriever. graph may be nil, which disables the
// expansion step and yields vector-only results. defaults fills fields a
// caller leaves zero on a Retrieve call; its own zero fields fall back to
// the package defaults.
func New(gate *embedding.Gate, vectors vectorstore.VectorStore, graph graphstore.GraphStore, collection string, defaults Options) Retriever {
	return &hybridRetriever{
		gate:       gate,
		vectors:    vectors,
		graph:      graph,
		collection: collection,
		defaults:   defaults,
	}
}

// Retrieve runs the hybrid pipeline for one query.
func (r *hybridRetriever) Retrieve(ctx context.Context, query string, opts Options) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	opts = opts.merged(r.defaults)

	result := Result{Query: query, Chunks: []RetrievedChunk{}}

	vector, fellBack := r.gate.Embed(ctx, query)
	result.UsedFallback = fellBack

	hits, err := r.vectors.Search(ctx, r.collection, vector, vectorstore.SearchOptions{
		Limit:          opts.TopK,
		ScoreThreshold: opts.ScoreThreshold,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to search vector store: %w", err)
	}

	if len(hits) == 0 {
		logger.InfoContext(ctx, "no vector hits above threshold",
			"query", query,
			"threshold", opts.ScoreThreshold,
		)
		return result, nil
	}

	seen := make(map[string]bool, len(hits))
	seedIDs := make([]string, 0, len(hits))
	for _, hit := range hits {
		chunk := chunkFromHit(hit)
		if seen[chunk.ChunkID] {
			continue
		}
		seen[chunk.ChunkID] = true
		seedIDs = append(seedIDs, chunk.ChunkID)
		result.Chunks = append(result.Chunks, chunk)
	}
	result.VectorHits = len(result.Chunks)

	if r.graph != nil {
		neighbors, err := r.graph.Expand(ctx, seedIDs, opts.Hops)
		if err != nil {
			logger.WarnContext(ctx, "graph expansion failed, returning vector-only results",
				"error", err,
			)
		} else {
			for _, neighbor := range neighbors {
				if seen[neighbor.ChunkID] {
					continue
				}
				seen[neighbor.ChunkID] = true
				result.Chunks = append(result.Chunks, RetrievedChunk{
					ChunkID:      neighbor.ChunkID,
					Text:         neighbor.Text,
					FileName:     neighbor.FileName,
					SectionTitle: neighbor.SectionTitle,
					Source:       SourceGraph,
				})
			}
			result.GraphFills = len(result.Chunks) - result.VectorHits
		}
	}

	// Vector hits stay ahead of equal-scored graph fills.
	sort.SliceStable(result.Chunks, func(i, j int) bool {
		return result.Chunks[i].Score > result.Chunks[j].Score
	})

	logger.InfoContext(ctx, "retrieval completed",
		"query", query,
		"vector_hits", result.VectorHits,
		"graph_fills", result.GraphFills,
		"total", len(result.Chunks),
	)
	return result, nil
}

// chunkFromHit converts a vector search hit to a retrieved chunk. Payloads
// written by ingestion always carry chunk_id and text; missing fields
// degrade to the point ID and empty strings rather than dropping the hit.
func chunkFromHit(hit vectorstore.SearchResult) RetrievedChunk {
	chunk := RetrievedChunk{
		Score:  hit.Score,
		Source: SourceVector,
	}
	if id, ok := hit.Meta["chunk_id"].(string); ok && id != "" {
		chunk.ChunkID = id
	} else {
		chunk.ChunkID = hit.PointID
	}
	chunk.Text, _ = hit.Meta["text"].(string)
	chunk.FileName, _ = hit.Meta["file_name"].(string)
	chunk.SectionTitle, _ = hit.Meta["section_title"].(string)
	return chunk
}
