package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"graphrag/internal/contextutil"
	"graphrag/internal/document"
	"graphrag/internal/embedding"
)

// Neo4jStore implements GraphStore on a Neo4j server over bolt.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStore creates a driver for the given bolt URI. Connectivity is
// not verified here; call Ping for that.
func NewNeo4jStore(uri, username, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Neo4jStore{driver: driver}, nil
}

// EnsureSchema creates the uniqueness constraints the write queries rely
// on. Constraint DDL runs in auto-commit transactions.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT chunk_id_unique IF NOT EXISTS FOR (c:Chunk) REQUIRE c.chunk_id IS UNIQUE",
		"CREATE CONSTRAINT document_name_unique IF NOT EXISTS FOR (d:Document) REQUIRE d.name IS UNIQUE",
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		_ = session.Close(ctx)
	}()

	for _, stmt := range constraints {
		result, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	return nil
}

// UpsertChunks merges the document node and chunk nodes, attaches
// BELONGS_TO edges and rebuilds the file's NEXT_SECTION chain in
// (section, chunk) order. The chain is dropped and relinked so edges from
// superseded chunks never linger.
func (s *Neo4jStore) UpsertChunks(ctx context.Context, doc document.Document, chunks []document.Chunk) error {
	rows := make([]any, 0, len(chunks))
	for _, chunk := range chunks {
		_, _, chunkIndex, err := document.ParseChunkID(chunk.ID)
		if err != nil {
			return fmt.Errorf("failed to parse chunk id: %w", err)
		}
		rows = append(rows, map[string]any{
			"id":            chunk.ID,
			"text":          chunk.Text,
			"file_name":     chunk.FileName,
			"section_id":    chunk.SectionID,
			"chunk_index":   chunkIndex,
			"section_title": chunk.SectionTitle,
			"doc_type":      chunk.DocType,
			"section_hash":  chunk.SectionHash,
			"embedding":     floatList(chunk.Embedding),
		})
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		_ = session.Close(ctx)
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := runConsume(ctx, tx, `
			MERGE (d:Document {name: $name})
			SET d.doc_type = $doc_type, d.path = $path, d.updated_at = datetime()`,
			map[string]any{"name": doc.FileName, "doc_type": doc.DocType, "path": doc.Path},
		); err != nil {
			return nil, err
		}

		if len(rows) > 0 {
			if err := runConsume(ctx, tx, `
				UNWIND $chunks AS row
				MERGE (c:Chunk {chunk_id: row.id})
				SET c.text = row.text,
				    c.file_name = row.file_name,
				    c.section_id = row.section_id,
				    c.chunk_index = row.chunk_index,
				    c.section_title = row.section_title,
				    c.doc_type = row.doc_type,
				    c.section_hash = row.section_hash,
				    c.embedding = row.embedding
				WITH c
				MATCH (d:Document {name: c.file_name})
				MERGE (c)-[:BELONGS_TO]->(d)`,
				map[string]any{"chunks": rows},
			); err != nil {
				return nil, err
			}
		}

		if err := runConsume(ctx, tx, `
			MATCH (:Chunk {file_name: $file_name})-[r:NEXT_SECTION]->()
			DELETE r`,
			map[string]any{"file_name": doc.FileName},
		); err != nil {
			return nil, err
		}
		return nil, runConsume(ctx, tx, `
			MATCH (c:Chunk {file_name: $file_name})
			WITH c ORDER BY c.section_id, c.chunk_index
			WITH collect(c) AS ordered
			UNWIND range(0, size(ordered) - 2) AS i
			WITH ordered[i] AS a, ordered[i+1] AS b
			MERGE (a)-[:NEXT_SECTION]->(b)`,
			map[string]any{"file_name": doc.FileName},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}
	return nil
}

// LinkSimilar compares the given chunks against stored chunks of other
// documents and merges SEMANTICALLY_SIMILAR edges for pairs at or above
// SimilarityThreshold. Similarity is computed client-side so no server
// plugin is required.
func (s *Neo4jStore) LinkSimilar(ctx context.Context, chunks []document.Chunk) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	batch := make([]document.Chunk, 0, len(chunks))
	files := make(map[string]bool)
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		batch = append(batch, chunk)
		files[chunk.FileName] = true
	}
	if len(batch) == 0 {
		return 0, nil
	}

	fileList := make([]any, 0, len(files))
	for name := range files {
		fileList = append(fileList, name)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	candidates, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (o:Chunk)
			WHERE NOT o.file_name IN $files AND o.embedding IS NOT NULL
			RETURN o.chunk_id AS id, o.embedding AS embedding`,
			map[string]any{"files": fileList},
		)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	closeErr := session.Close(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load candidate embeddings: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("failed to close session: %w", closeErr)
	}

	records, _ := candidates.([]*neo4j.Record)
	pairs := make([]any, 0)
	for _, chunk := range batch {
		for _, record := range records {
			id := recordString(record, "id")
			vecValue, _ := record.Get("embedding")
			vec := toVector(vecValue)
			score := embedding.Cosine(chunk.Embedding, vec)
			if score < SimilarityThreshold {
				continue
			}
			source, target := chunk.ID, id
			if target < source {
				source, target = target, source
			}
			pairs = append(pairs, map[string]any{
				"source":     source,
				"target":     target,
				"similarity": float64(score),
			})
		}
	}
	if len(pairs) == 0 {
		return 0, nil
	}

	writeSession := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		_ = writeSession.Close(ctx)
	}()
	_, err = writeSession.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runConsume(ctx, tx, `
			UNWIND $pairs AS pair
			MATCH (a:Chunk {chunk_id: pair.source})
			MATCH (b:Chunk {chunk_id: pair.target})
			MERGE (a)-[r:SEMANTICALLY_SIMILAR]->(b)
			SET r.similarity = pair.similarity`,
			map[string]any{"pairs": pairs},
		)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to link similar chunks: %w", err)
	}

	logger.DebugContext(ctx, "linked similar chunks", "edges", len(pairs))
	return len(pairs), nil
}

// DeleteSections detaches and deletes the file's chunks for the given
// section IDs.
func (s *Neo4jStore) DeleteSections(ctx context.Context, fileName string, sectionIDs []int) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	ids := make([]any, len(sectionIDs))
	for i, id := range sectionIDs {
		ids[i] = id
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		_ = session.Close(ctx)
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runConsume(ctx, tx, `
			MATCH (c:Chunk {file_name: $file_name})
			WHERE c.section_id IN $section_ids
			DETACH DELETE c`,
			map[string]any{"file_name": fileName, "section_ids": ids},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

// DeleteDocument removes the document node and every chunk of the file.
func (s *Neo4jStore) DeleteDocument(ctx context.Context, fileName string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		_ = session.Close(ctx)
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := runConsume(ctx, tx, `
			MATCH (c:Chunk {file_name: $file_name})
			DETACH DELETE c`,
			map[string]any{"file_name": fileName},
		); err != nil {
			return nil, err
		}
		return nil, runConsume(ctx, tx, `
			MATCH (d:Document {name: $file_name})
			DETACH DELETE d`,
			map[string]any{"file_name": fileName},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Expand traverses up to hops relationships out from the seed chunks and
// returns the distinct chunks encountered. The hop bound is validated and
// formatted into the pattern because Cypher cannot parameterize
// variable-length ranges.
func (s *Neo4jStore) Expand(ctx context.Context, chunkIDs []string, hops int) ([]Neighbor, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if hops < 1 || hops > MaxHops {
		return nil, fmt.Errorf("hops must be between 1 and %d, got %d", MaxHops, hops)
	}
	if len(chunkIDs) == 0 {
		return nil, nil
	}
	ids := make([]any, len(chunkIDs))
	for i, id := range chunkIDs {
		ids[i] = id
	}

	query := fmt.Sprintf(`
		MATCH (seed:Chunk)
		WHERE seed.chunk_id IN $ids
		MATCH (seed)-[:BELONGS_TO|NEXT_SECTION|SEMANTICALLY_SIMILAR*1..%d]-(n:Chunk)
		WHERE NOT n.chunk_id IN $ids
		RETURN DISTINCT n.chunk_id AS id, n.text AS text,
		       n.file_name AS file_name, n.section_title AS section_title
		ORDER BY file_name, id`, hops)

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer func() {
		_ = session.Close(ctx)
	}()

	collected, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand context: %w", err)
	}

	records, _ := collected.([]*neo4j.Record)
	neighbors := make([]Neighbor, 0, len(records))
	for _, record := range records {
		neighbors = append(neighbors, Neighbor{
			ChunkID:      recordString(record, "id"),
			Text:         recordString(record, "text"),
			FileName:     recordString(record, "file_name"),
			SectionTitle: recordString(record, "section_title"),
		})
	}

	logger.DebugContext(ctx, "expanded graph context", "seeds", len(chunkIDs), "hops", hops, "neighbors", len(neighbors))
	return neighbors, nil
}

// Stats returns document, chunk and relationship counts.
func (s *Neo4jStore) Stats(ctx context.Context) (Stats, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer func() {
		_ = session.Close(ctx)
	}()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		var stats Stats
		var err error
		if stats.Documents, err = countOne(ctx, tx, "MATCH (d:Document) RETURN count(d)"); err != nil {
			return Stats{}, err
		}
		if stats.Chunks, err = countOne(ctx, tx, "MATCH (c:Chunk) RETURN count(c)"); err != nil {
			return Stats{}, err
		}
		if stats.Relations, err = countOne(ctx, tx, "MATCH ()-[r]->() RETURN count(r)"); err != nil {
			return Stats{}, err
		}
		return stats, nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read graph stats: %w", err)
	}
	stats, _ := result.(Stats)
	return stats, nil
}

// Ping verifies server connectivity.
func (s *Neo4jStore) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to reach neo4j: %w", err)
	}
	return nil
}

// Close shuts down the driver and its connection pool.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func runConsume(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

func countOne(ctx context.Context, tx neo4j.ManagedTransaction, query string) (int64, error) {
	result, err := tx.Run(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := record.Values[0].(int64)
	return n, nil
}

func recordString(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
