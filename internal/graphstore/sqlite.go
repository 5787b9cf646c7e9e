package graphstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"graphrag/internal/contextutil"
	"graphrag/internal/document"
	"graphrag/internal/embedding"
)

const (
	relNextSection = "NEXT_SECTION"
	relSimilar     = "SEMANTICALLY_SIMILAR"
)

// SQLiteStore implements GraphStore on an embedded SQLite database. It
// keeps the same node and edge model as the Neo4j store: documents,
// chunks, and typed edges. Containment (BELONGS_TO) is carried by the
// chunks.document_name column rather than edge rows.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path.
// It enables foreign keys and sets connection pool settings.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph database: %w", err)
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping graph database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// EnsureSchema runs the graph migrations. Idempotent.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			doc_type TEXT NOT NULL,
			path TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_name TEXT NOT NULL,
			section_id INTEGER NOT NULL,
			chunk_index INTEGER NOT NULL,
			section_title TEXT,
			doc_type TEXT,
			section_hash TEXT,
			text TEXT NOT NULL,
			embedding BLOB,
			FOREIGN KEY (document_name) REFERENCES documents(name) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			rel_type TEXT NOT NULL,
			weight REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (source_id, target_id, rel_type),
			FOREIGN KEY (source_id) REFERENCES chunks(id) ON DELETE CASCADE,
			FOREIGN KEY (target_id) REFERENCES chunks(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_name, section_id, chunk_index);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run graph migration: %w", err)
		}
	}
	return nil
}

// UpsertChunks writes the document row, upserts the chunk rows and
// rebuilds the file's NEXT_SECTION chain, all in one transaction.
func (s *SQLiteStore) UpsertChunks(ctx context.Context, doc document.Document, chunks []document.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (name, doc_type, path, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			doc_type = excluded.doc_type,
			path = excluded.path,
			updated_at = CURRENT_TIMESTAMP`,
		doc.FileName, doc.DocType, doc.Path,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	for _, chunk := range chunks {
		_, _, chunkIndex, err := document.ParseChunkID(chunk.ID)
		if err != nil {
			return fmt.Errorf("failed to parse chunk id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_name, section_id, chunk_index, section_title, doc_type, section_hash, text, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				document_name = excluded.document_name,
				section_id = excluded.section_id,
				chunk_index = excluded.chunk_index,
				section_title = excluded.section_title,
				doc_type = excluded.doc_type,
				section_hash = excluded.section_hash,
				text = excluded.text,
				embedding = excluded.embedding`,
			chunk.ID, chunk.FileName, chunk.SectionID, chunkIndex,
			chunk.SectionTitle, chunk.DocType, chunk.SectionHash,
			chunk.Text, encodeVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk: %w", err)
		}
	}

	if err := rebuildChain(ctx, tx, doc.FileName); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rebuildChain drops and relinks the NEXT_SECTION edges for one file so
// edges from superseded chunks never linger.
func rebuildChain(ctx context.Context, tx *sql.Tx, fileName string) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM edges
		WHERE rel_type = ?
		  AND source_id IN (SELECT id FROM chunks WHERE document_name = ?)`,
		relNextSection, fileName,
	)
	if err != nil {
		return fmt.Errorf("failed to clear section chain: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM chunks WHERE document_name = ? ORDER BY section_id, chunk_index",
		fileName,
	)
	if err != nil {
		return fmt.Errorf("failed to query chunk order: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ordered []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ordered = append(ordered, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	for i := 0; i+1 < len(ordered); i++ {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO edges (source_id, target_id, rel_type) VALUES (?, ?, ?)",
			ordered[i], ordered[i+1], relNextSection,
		)
		if err != nil {
			return fmt.Errorf("failed to link section chain: %w", err)
		}
	}
	return nil
}

// LinkSimilar compares the given chunks against stored chunks of other
// documents and upserts SEMANTICALLY_SIMILAR edges for pairs at or above
// SimilarityThreshold.
func (s *SQLiteStore) LinkSimilar(ctx context.Context, chunks []document.Chunk) (int, error) {
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

	fileArgs := make([]any, 0, len(files))
	for name := range files {
		fileArgs = append(fileArgs, name)
	}
	query := fmt.Sprintf(
		"SELECT id, embedding FROM chunks WHERE document_name NOT IN (%s) AND embedding IS NOT NULL",
		placeholders(len(fileArgs)),
	)
	rows, err := s.db.QueryContext(ctx, query, fileArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to query candidate embeddings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	type candidate struct {
		id  string
		vec []float32
	}
	var candidates []candidate
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return 0, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if vec := decodeVector(blob); vec != nil {
			candidates = append(candidates, candidate{id: id, vec: vec})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("row iteration error: %w", err)
	}

	written := 0
	for _, chunk := range batch {
		for _, cand := range candidates {
			score := embedding.Cosine(chunk.Embedding, cand.vec)
			if score < SimilarityThreshold {
				continue
			}
			source, target := chunk.ID, cand.id
			if target < source {
				source, target = target, source
			}
			_, err := s.db.ExecContext(ctx, `
				INSERT INTO edges (source_id, target_id, rel_type, weight)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(source_id, target_id, rel_type) DO UPDATE SET weight = excluded.weight`,
				source, target, relSimilar, float64(score),
			)
			if err != nil {
				return written, fmt.Errorf("failed to upsert similarity edge: %w", err)
			}
			written++
		}
	}

	if written > 0 {
		logger.DebugContext(ctx, "linked similar chunks", "edges", written)
	}
	return written, nil
}

// DeleteSections removes the file's chunks for the given section IDs.
// Edges cascade.
func (s *SQLiteStore) DeleteSections(ctx context.Context, fileName string, sectionIDs []int) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	args := make([]any, 0, len(sectionIDs)+1)
	args = append(args, fileName)
	for _, id := range sectionIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(
		"DELETE FROM chunks WHERE document_name = ? AND section_id IN (%s)",
		placeholders(len(sectionIDs)),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

// DeleteDocument removes the document row; chunks and edges cascade.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, fileName string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE name = ?", fileName); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Expand walks the edge table breadth-first from the seed chunks,
// treating edges as undirected and document membership as a BELONGS_TO
// hop in each direction, to mirror the Neo4j traversal.
func (s *SQLiteStore) Expand(ctx context.Context, chunkIDs []string, hops int) ([]Neighbor, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if hops < 1 || hops > MaxHops {
		return nil, fmt.Errorf("hops must be between 1 and %d, got %d", MaxHops, hops)
	}
	if len(chunkIDs) == 0 {
		return nil, nil
	}

	seeds := make(map[string]bool, len(chunkIDs))
	visitedChunks := make(map[string]bool, len(chunkIDs))
	for _, id := range chunkIDs {
		seeds[id] = true
		visitedChunks[id] = true
	}
	visitedDocs := make(map[string]bool)

	frontierChunks := append([]string(nil), chunkIDs...)
	var frontierDocs []string

	for hop := 0; hop < hops; hop++ {
		if len(frontierChunks) == 0 && len(frontierDocs) == 0 {
			break
		}
		nextChunks := make(map[string]bool)
		nextDocs := make(map[string]bool)

		if len(frontierChunks) > 0 {
			if err := s.edgeNeighbors(ctx, frontierChunks, nextChunks); err != nil {
				return nil, err
			}
			if err := s.chunkDocuments(ctx, frontierChunks, nextDocs); err != nil {
				return nil, err
			}
		}
		if len(frontierDocs) > 0 {
			if err := s.documentChunks(ctx, frontierDocs, nextChunks); err != nil {
				return nil, err
			}
		}

		frontierChunks = frontierChunks[:0]
		for id := range nextChunks {
			if !visitedChunks[id] {
				visitedChunks[id] = true
				frontierChunks = append(frontierChunks, id)
			}
		}
		frontierDocs = frontierDocs[:0]
		for name := range nextDocs {
			if !visitedDocs[name] {
				visitedDocs[name] = true
				frontierDocs = append(frontierDocs, name)
			}
		}
	}

	collected := make([]string, 0, len(visitedChunks))
	for id := range visitedChunks {
		if !seeds[id] {
			collected = append(collected, id)
		}
	}
	if len(collected) == 0 {
		return nil, nil
	}

	args := make([]any, len(collected))
	for i, id := range collected {
		args[i] = id
	}
	query := fmt.Sprintf(`
		SELECT id, text, document_name, section_title
		FROM chunks WHERE id IN (%s)
		ORDER BY document_name, id`,
		placeholders(len(collected)),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbors: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var neighbors []Neighbor
	for rows.Next() {
		var n Neighbor
		var title sql.NullString
		if err := rows.Scan(&n.ChunkID, &n.Text, &n.FileName, &title); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		n.SectionTitle = title.String
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	logger.DebugContext(ctx, "expanded graph context", "seeds", len(chunkIDs), "hops", hops, "neighbors", len(neighbors))
	return neighbors, nil
}

// edgeNeighbors adds both endpoints of every edge touching the frontier.
func (s *SQLiteStore) edgeNeighbors(ctx context.Context, frontier []string, out map[string]bool) error {
	ph := placeholders(len(frontier))
	args := make([]any, 0, 2*len(frontier))
	for _, id := range frontier {
		args = append(args, id)
	}
	for _, id := range frontier {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT source_id, target_id FROM edges WHERE source_id IN (%s) OR target_id IN (%s)", ph, ph),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query edges: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return fmt.Errorf("failed to scan edge: %w", err)
		}
		out[source] = true
		out[target] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) chunkDocuments(ctx context.Context, frontier []string, out map[string]bool) error {
	args := make([]any, len(frontier))
	for i, id := range frontier {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT document_name FROM chunks WHERE id IN (%s)", placeholders(len(frontier))),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query chunk documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan document name: %w", err)
		}
		out[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) documentChunks(ctx context.Context, frontier []string, out map[string]bool) error {
	args := make([]any, len(frontier))
	for i, name := range frontier {
		args[i] = name
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id FROM chunks WHERE document_name IN (%s)", placeholders(len(frontier))),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query document chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

// Stats returns document, chunk and relation counts. Containment is
// implicit in this store, so each chunk counts as one BELONGS_TO relation
// on top of the edge rows.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&stats.Documents); err != nil {
		return Stats{}, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stats.Chunks); err != nil {
		return Stats{}, fmt.Errorf("failed to count chunks: %w", err)
	}
	var edges int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&edges); err != nil {
		return Stats{}, fmt.Errorf("failed to count edges: %w", err)
	}
	stats.Relations = edges + stats.Chunks
	return stats, nil
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping graph database: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
