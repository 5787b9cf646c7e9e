package tracker

import (
	"graphrag/internal/document"
)

// CachedSection is the persisted form of a processed section.
type CachedSection struct {
	SectionID  int      `json:"section_id"`
	Title      string   `json:"title"`
	Hash       string   `json:"hash"`
	Content    string   `json:"content"`
	Paragraphs []string `json:"paragraphs"`
}

// DocumentState is the persisted per-file tracking state.
type DocumentState struct {
	Sections      []CachedSection `json:"sections"`
	LastProcessed string          `json:"last_processed"`
	TotalSections int             `json:"total_sections"`
}

// Cache is the on-disk tracking state for every processed document.
type Cache struct {
	Documents   map[string]DocumentState `json:"documents"`
	LastUpdated string                   `json:"last_updated"`
}

func emptyCache() Cache {
	return Cache{Documents: make(map[string]DocumentState)}
}

// Changes is the classification of a document's current sections against
// its cached state. Deleted holds the IDs of cached sections that no longer
// exist in the document.
type Changes struct {
	New       []document.Section
	Modified  []document.Section
	Unchanged []document.Section
	Deleted   []int
}

// HasWork reports whether anything needs reprocessing. A document whose
// sections are all unchanged has no work.
func (c Changes) HasWork() bool {
	return len(c.New) > 0 || len(c.Modified) > 0 || len(c.Deleted) > 0
}

// Stats summarizes the tracker cache for status surfaces.
type Stats struct {
	TotalFiles    int        `json:"total_files"`
	TotalSections int        `json:"total_sections"`
	LastUpdated   string     `json:"last_updated"`
	Files         []FileStat `json:"files"`
}

// FileStat is the per-file slice of Stats.
type FileStat struct {
	FileName      string `json:"file_name"`
	TotalSections int    `json:"total_sections"`
	LastProcessed string `json:"last_processed"`
}

func toCachedSections(sections []document.Section) []CachedSection {
	cached := make([]CachedSection, 0, len(sections))
	for _, sec := range sections {
		cached = append(cached, CachedSection{
			SectionID:  sec.ID,
			Title:      sec.Title,
			Hash:       sec.Hash,
			Content:    sec.Content,
			Paragraphs: sec.Paragraphs,
		})
	}
	return cached
}
