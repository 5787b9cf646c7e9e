// Package ingest orchestrates the incremental pipeline: extract sections,
// detect changes against the tracker cache, chunk and embed what changed,
// write the vector store (authoritative) and the graph store (best-effort),
// then commit the cache. A file whose vector write fails is retried in full
// on the next run because its cache entry is never committed.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"graphrag/internal/chunker"
	"graphrag/internal/contextutil"
	"graphrag/internal/docparse"
	"graphrag/internal/document"
	"graphrag/internal/embedding"
	"graphrag/internal/graphstore"
	"graphrag/internal/tracker"
	"graphrag/internal/vectorstore"
)

// ErrBusy is returned when an ingestion run is requested while another is
// in progress.
var ErrBusy = errors.New("ingestion already in progress")

// Result summarizes one file's ingestion.
type Result struct {
	FileName      string `json:"file_name"`
	New           int    `json:"new"`
	Modified      int    `json:"modified"`
	Unchanged     int    `json:"unchanged"`
	Deleted       int    `json:"deleted"`
	ChunksWritten int    `json:"chunks_written"`
	Skipped       bool   `json:"skipped"`
	FellBack      int    `json:"fell_back"`
}

// Summary aggregates a folder run.
type Summary struct {
	Files         int      `json:"files"`
	Processed     int      `json:"processed"`
	Skipped       int      `json:"skipped"`
	Failed        int      `json:"failed"`
	Removed       int      `json:"removed"`
	ChunksWritten int      `json:"chunks_written"`
	Results       []Result `json:"results"`
}

// Ingestor drives the dual-store ingestion pipeline. Runs are serialized:
// IngestFolder refuses to overlap another run, single-file ingestion waits
// its turn.
type Ingestor struct {
	parser     *docparse.Parser
	tracker    *tracker.Tracker
	chunker    *chunker.Chunker
	gate       *embedding.Gate
	vectors    vectorstore.VectorStore
	graph      graphstore.GraphStore // nil when the graph store is off
	collection string

	mu sync.Mutex
}

// NewIngestor creates an ingestor. graph may be nil to disable graph writes.
func NewIngestor(
	parser *docparse.Parser,
	track *tracker.Tracker,
	chunk *chunker.Chunker,
	gate *embedding.Gate,
	vectors vectorstore.VectorStore,
	graph graphstore.GraphStore,
	collection string,
) *Ingestor {
	return &Ingestor{
		parser:     parser,
		tracker:    track,
		chunker:    chunk,
		gate:       gate,
		vectors:    vectors,
		graph:      graph,
		collection: collection,
	}
}

// IngestFile ingests a single file, waiting for any running ingestion to
// finish first.
func (i *Ingestor) IngestFile(ctx context.Context, path string) (Result, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.ingestFile(ctx, path)
}

// IngestFolder ingests every document in dir (non-recursive) and removes
// tracked files that no longer exist on disk. Returns ErrBusy when another
// run holds the ingestor.
func (i *Ingestor) IngestFolder(ctx context.Context, dir string) (Summary, error) {
	if !i.mu.TryLock() {
		return Summary{}, ErrBusy
	}
	defer i.mu.Unlock()
	return i.ingestFolder(ctx, dir)
}

// RemoveFile deletes a vanished file's vector points, graph nodes and
// cache entry.
func (i *Ingestor) RemoveFile(ctx context.Context, fileName string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.removeFile(ctx, fileName)
}

func (i *Ingestor) ingestFile(ctx context.Context, path string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	fileName := filepath.Base(path)
	result := Result{FileName: fileName}

	sections, err := i.parser.ExtractFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to extract sections: %w", err)
	}

	changes := i.tracker.Detect(fileName, sections)
	result.New = len(changes.New)
	result.Modified = len(changes.Modified)
	result.Unchanged = len(changes.Unchanged)
	result.Deleted = len(changes.Deleted)

	if !changes.HasWork() {
		result.Skipped = true
		logger.DebugContext(ctx, "skipping unchanged file", "file", fileName)
		return result, nil
	}

	doc := document.Document{
		FileName: fileName,
		Path:     path,
		DocType:  document.DocTypeFor(fileName),
	}

	// Only new and modified sections are re-chunked; unchanged sections
	// keep their stored points.
	work := make([]document.Section, 0, len(changes.New)+len(changes.Modified))
	work = append(work, changes.New...)
	work = append(work, changes.Modified...)
	sort.Slice(work, func(a, b int) bool { return work[a].ID < work[b].ID })

	var chunks []document.Chunk
	for _, section := range work {
		for index, text := range i.chunker.Split(section.Content) {
			chunks = append(chunks, document.Chunk{
				ID:           document.ChunkID(fileName, section.ID, index),
				Text:         text,
				FileName:     fileName,
				SectionTitle: section.Title,
				SectionID:    section.ID,
				DocType:      doc.DocType,
				SectionHash:  section.Hash,
			})
		}
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for index, chunk := range chunks {
			texts[index] = chunk.Text
		}
		vectors, fellBack := i.gate.EmbedAll(ctx, texts)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		for index := range chunks {
			chunks[index].Embedding = vectors[index]
		}
		result.FellBack = fellBack
	}

	// Superseded sections lose their old points before the new batch goes
	// in, so a section that shrank cannot leave stale chunk indexes behind.
	superseded := make([]int, 0, len(changes.Modified)+len(changes.Deleted))
	for _, section := range changes.Modified {
		superseded = append(superseded, section.ID)
	}
	superseded = append(superseded, changes.Deleted...)
	sort.Ints(superseded)

	for _, sectionID := range superseded {
		err := i.vectors.DeleteByFilter(ctx, i.collection, map[string]any{
			"file_name":  fileName,
			"section_id": sectionID,
		})
		if err != nil {
			return result, fmt.Errorf("failed to delete superseded points: %w", err)
		}
	}

	if len(chunks) > 0 {
		points := make([]vectorstore.Point, len(chunks))
		for index, chunk := range chunks {
			points[index] = vectorstore.Point{
				ID:  vectorstore.PointID(chunk.ID),
				Vec: chunk.Embedding,
				Meta: map[string]any{
					"chunk_id":      chunk.ID,
					"file_name":     chunk.FileName,
					"section_id":    chunk.SectionID,
					"section_title": chunk.SectionTitle,
					"doc_type":      chunk.DocType,
					"section_hash":  chunk.SectionHash,
					"text":          chunk.Text,
				},
			}
		}
		if err := i.vectors.Upsert(ctx, i.collection, points); err != nil {
			return result, fmt.Errorf("failed to upsert vectors: %w", err)
		}
		result.ChunksWritten = len(points)
	}

	// Graph writes never fail the file; the vector store is authoritative
	// and the graph self-heals the next time these sections change.
	if i.graph != nil {
		if len(superseded) > 0 {
			if err := i.graph.DeleteSections(ctx, fileName, superseded); err != nil {
				logger.WarnContext(ctx, "failed to delete graph sections", "file", fileName, "error", err)
			}
		}
		if err := i.graph.UpsertChunks(ctx, doc, chunks); err != nil {
			logger.WarnContext(ctx, "failed to upsert graph chunks", "file", fileName, "error", err)
		} else if len(chunks) > 0 {
			if _, err := i.graph.LinkSimilar(ctx, chunks); err != nil {
				logger.WarnContext(ctx, "failed to link similar chunks", "file", fileName, "error", err)
			}
		}
	}

	if err := i.tracker.Commit(fileName, sections); err != nil {
		return result, fmt.Errorf("failed to commit section cache: %w", err)
	}

	logger.InfoContext(ctx, "ingested file",
		"file", fileName,
		"new", result.New,
		"modified", result.Modified,
		"deleted", result.Deleted,
		"chunks", result.ChunksWritten,
	)
	return result, nil
}

func (i *Ingestor) ingestFolder(ctx context.Context, dir string) (Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read docs folder: %w", err)
	}

	var files []string
	present := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !isDocFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
		present[entry.Name()] = true
	}
	sort.Strings(files)

	logger.InfoContext(ctx, "starting folder ingestion", "dir", dir, "files", len(files))

	summary := Summary{Files: len(files)}
	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		result, err := i.ingestFile(ctx, path)
		if err != nil {
			summary.Failed++
			logger.ErrorContext(ctx, "failed to ingest file", "file", filepath.Base(path), "error", err)
			continue
		}
		summary.Results = append(summary.Results, result)
		summary.ChunksWritten += result.ChunksWritten
		if result.Skipped {
			summary.Skipped++
		} else {
			summary.Processed++
		}
	}

	// Tracked files that vanished from disk get their points and graph
	// nodes removed and their cache entries dropped.
	for _, fileName := range i.tracker.TrackedFiles() {
		if present[fileName] {
			continue
		}
		if err := i.removeFile(ctx, fileName); err != nil {
			summary.Failed++
			logger.ErrorContext(ctx, "failed to remove deleted file", "file", fileName, "error", err)
			continue
		}
		summary.Removed++
	}

	logger.InfoContext(ctx, "folder ingestion completed",
		"files", summary.Files,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"removed", summary.Removed,
		"chunks", summary.ChunksWritten,
	)
	return summary, nil
}

func (i *Ingestor) removeFile(ctx context.Context, fileName string) error {
	logger := contextutil.LoggerFromContext(ctx)

	err := i.vectors.DeleteByFilter(ctx, i.collection, map[string]any{"file_name": fileName})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}

	if i.graph != nil {
		if err := i.graph.DeleteDocument(ctx, fileName); err != nil {
			logger.WarnContext(ctx, "failed to delete graph document", "file", fileName, "error", err)
		}
	}

	if err := i.tracker.Forget(fileName); err != nil {
		return fmt.Errorf("failed to forget file: %w", err)
	}

	logger.InfoContext(ctx, "removed deleted file", "file", fileName)
	return nil
}

// isDocFile reports whether the name looks like an ingestible document.
// Hidden files (editor locks, swap files) are skipped.
func isDocFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".txt":
		return true
	}
	return false
}
