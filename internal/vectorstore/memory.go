package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"graphrag/internal/embedding"
)

// MemoryStore is an embedded VectorStore backed by maps and brute-force
// cosine search. It backs development setups and tests where Qdrant is not
// running; contents do not survive a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	vectorSize int
	points     map[string]Point
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
	}
}

// EnsureCollection creates the collection if missing and validates the
// vector size if it already exists.
func (s *MemoryStore) EnsureCollection(_ context.Context, collection string, vectorSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.collections[collection]; ok {
		if existing.vectorSize != vectorSize {
			return fmt.Errorf("%w: collection has %d, expected %d", ErrDimensionMismatch, existing.vectorSize, vectorSize)
		}
		return nil
	}
	s.collections[collection] = &memoryCollection{
		vectorSize: vectorSize,
		points:     make(map[string]Point),
	}
	return nil
}

// CollectionExists reports whether the collection exists.
func (s *MemoryStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.collections[collection]
	return ok, nil
}

// Upsert inserts or updates points in the collection.
func (s *MemoryStore) Upsert(_ context.Context, collection string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	for _, point := range points {
		if len(point.Vec) != col.vectorSize {
			return fmt.Errorf("%w: point %s has %d, expected %d", ErrDimensionMismatch, point.ID, len(point.Vec), col.vectorSize)
		}
		col.points[point.ID] = point
	}
	return nil
}

// Search performs a brute-force cosine similarity search.
func (s *MemoryStore) Search(_ context.Context, collection string, query []float32, opts SearchOptions) ([]SearchResult, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("search limit must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(col.points))
	for _, point := range col.points {
		if !matchesFilters(point.Meta, opts.Filters) {
			continue
		}
		score := embedding.Cosine(query, point.Vec)
		if opts.ScoreThreshold > 0 && score < opts.ScoreThreshold {
			continue
		}
		results = append(results, SearchResult{
			PointID: point.ID,
			Score:   score,
			Meta:    point.Meta,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// Delete removes points by their IDs.
func (s *MemoryStore) Delete(_ context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	for _, id := range ids {
		delete(col.points, id)
	}
	return nil
}

// DeleteByFilter removes every point whose payload matches the filters.
func (s *MemoryStore) DeleteByFilter(_ context.Context, collection string, filters map[string]any) error {
	if len(filters) == 0 {
		return fmt.Errorf("delete filter is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	for id, point := range col.points {
		if matchesFilters(point.Meta, filters) {
			delete(col.points, id)
		}
	}
	return nil
}

// Count returns the number of points in the collection.
func (s *MemoryStore) Count(_ context.Context, collection string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	return uint64(len(col.points)), nil
}

// collection looks up a collection. Callers must hold s.mu.
func (s *MemoryStore) collection(name string) (*memoryCollection, error) {
	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", name)
	}
	return col, nil
}

// matchesFilters reports whether the payload satisfies every filter by
// exact match. Numeric values compare across int widths since payloads
// round-trip through JSON-ish representations.
func matchesFilters(meta, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := meta[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

