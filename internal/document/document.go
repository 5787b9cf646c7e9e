// Package document defines the core data model shared by the ingestion and
// retrieval pipelines: documents, their ordered sections, and the chunks
// derived from them.
package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Document represents a design document on disk.
type Document struct {
	FileName string // Base name, identity key for change tracking
	Path     string // Absolute path on disk
	DocType  string // One of the DocType* constants
}

// Section represents one heading-delimited region of a document.
// IDs are positional: 0-based, top to bottom. Inserting a section shifts
// every later ID, which reclassifies those sections as modified on the
// next run.
type Section struct {
	ID         int
	Title      string
	Content    string // Full text including the heading line
	Hash       string // Fingerprint of Content
	Paragraphs []string
}

// Chunk represents an embeddable piece of a section.
type Chunk struct {
	ID           string // "{fileName}_{sectionID}_{chunkIndex}"
	Text         string
	FileName     string
	SectionTitle string
	SectionID    int
	DocType      string
	SectionHash  string
	Embedding    []float32
}

// ChunkID builds the stable chunk identifier for a piece of a section.
func ChunkID(fileName string, sectionID, chunkIndex int) string {
	return fmt.Sprintf("%s_%d_%d", fileName, sectionID, chunkIndex)
}

// ParseChunkID splits a chunk identifier back into its parts. File names may
// themselves contain underscores, so the numeric fields are taken from the
// right.
func ParseChunkID(id string) (fileName string, sectionID, chunkIndex int, err error) {
	last := strings.LastIndex(id, "_")
	if last <= 0 {
		return "", 0, 0, fmt.Errorf("malformed chunk id %q", id)
	}
	chunkIndex, err = strconv.Atoi(id[last+1:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed chunk id %q: %w", id, err)
	}

	rest := id[:last]
	second := strings.LastIndex(rest, "_")
	if second <= 0 {
		return "", 0, 0, fmt.Errorf("malformed chunk id %q", id)
	}
	sectionID, err = strconv.Atoi(rest[second+1:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed chunk id %q: %w", id, err)
	}

	return rest[:second], sectionID, chunkIndex, nil
}
