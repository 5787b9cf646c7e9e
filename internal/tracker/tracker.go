// Package tracker maintains the section-level change cache that drives
// incremental ingestion. Section identity is positional: inserting a section
// shifts every later section's ID, so those sections classify as modified
// and reprocess on the next run.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"graphrag/internal/document"
)

// ErrCorruptCache marks a cache file that exists but cannot be decoded.
// Load converts it into an empty cache; the file is rewritten on the next
// commit.
var ErrCorruptCache = errors.New("section cache is corrupt")

// Tracker is the explicit handle to the change cache. One instance per
// process; safe for concurrent use.
type Tracker struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	cache Cache
}

// New creates a tracker persisting to the given path. Call Load before the
// first Detect to pick up state from previous runs.
func New(path string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		path:   path,
		logger: logger,
		cache:  emptyCache(),
	}
}

// Load reads the cache from disk. A missing file is a fresh start; an
// unreadable or corrupt file is logged and treated as empty so ingestion is
// never blocked by tracker state.
func (t *Tracker) Load() {
	cache, err := readCache(t.path)
	if err != nil {
		if errors.Is(err, ErrCorruptCache) {
			t.logger.Warn("section cache corrupt, starting with empty state", "path", t.path, "error", err)
		} else {
			t.logger.Warn("failed to read section cache, starting with empty state", "path", t.path, "error", err)
		}
		cache = emptyCache()
	}

	t.mu.Lock()
	t.cache = cache
	t.mu.Unlock()
}

// Detect classifies a document's current sections against the cached state.
// A file with no cached entry reports every section as new. The call is
// read-only; pair it with Commit once the downstream writes succeeded.
func (t *Tracker) Detect(fileName string, current []document.Section) Changes {
	t.mu.Lock()
	state := t.cache.Documents[fileName]
	cached := make(map[int]string, len(state.Sections))
	for _, sec := range state.Sections {
		cached[sec.SectionID] = sec.Hash
	}
	t.mu.Unlock()

	var changes Changes
	seen := make(map[int]bool, len(current))
	for _, sec := range current {
		seen[sec.ID] = true
		hash, exists := cached[sec.ID]
		switch {
		case !exists:
			changes.New = append(changes.New, sec)
		case hash != sec.Hash:
			changes.Modified = append(changes.Modified, sec)
		default:
			changes.Unchanged = append(changes.Unchanged, sec)
		}
	}

	for id := range cached {
		if !seen[id] {
			changes.Deleted = append(changes.Deleted, id)
		}
	}
	sort.Ints(changes.Deleted)

	return changes
}

// Commit replaces the cached state for a file with its current sections,
// unchanged ones included, and persists the cache. Call it only after the
// authoritative store accepted the file's writes.
func (t *Tracker) Commit(fileName string, sections []document.Section) error {
	now := time.Now().UTC().Format(time.RFC3339)
	state := DocumentState{
		Sections:      toCachedSections(sections),
		LastProcessed: now,
		TotalSections: len(sections),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cache.Documents[fileName] = state
	t.cache.LastUpdated = now
	return t.save()
}

// Forget drops a file's cached state, used when the file disappears from
// the docs folder.
func (t *Tracker) Forget(fileName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.cache.Documents[fileName]; !ok {
		return nil
	}
	delete(t.cache.Documents, fileName)
	t.cache.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return t.save()
}

// Reset wipes the cache so the next run reprocesses everything.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cache = emptyCache()
	t.cache.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return t.save()
}

// Sections returns the cached section IDs for a file, or nil when the file
// is untracked.
func (t *Tracker) Sections(fileName string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.cache.Documents[fileName]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(state.Sections))
	for _, sec := range state.Sections {
		ids = append(ids, sec.SectionID)
	}
	sort.Ints(ids)
	return ids
}

// TrackedFiles returns the names of every file with cached state, sorted.
func (t *Tracker) TrackedFiles() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	files := make([]string, 0, len(t.cache.Documents))
	for name := range t.cache.Documents {
		files = append(files, name)
	}
	sort.Strings(files)
	return files
}

// Stats summarizes the cache for the status endpoint and CLI.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := Stats{
		TotalFiles:  len(t.cache.Documents),
		LastUpdated: t.cache.LastUpdated,
		Files:       make([]FileStat, 0, len(t.cache.Documents)),
	}
	for name, state := range t.cache.Documents {
		stats.TotalSections += state.TotalSections
		stats.Files = append(stats.Files, FileStat{
			FileName:      name,
			TotalSections: state.TotalSections,
			LastProcessed: state.LastProcessed,
		})
	}
	sort.Slice(stats.Files, func(i, j int) bool {
		return stats.Files[i].FileName < stats.Files[j].FileName
	})
	return stats
}

// save writes the cache atomically: temp file in the same directory, then
// rename. Callers must hold t.mu.
func (t *Tracker) save() error {
	data, err := json.MarshalIndent(t.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode section cache: %w", err)
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".section_cache-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

func readCache(path string) (Cache, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyCache(), nil
	}
	if err != nil {
		return Cache{}, fmt.Errorf("failed to read cache file: %w", err)
	}

	var cache Cache
	if err := json.Unmarshal(raw, &cache); err != nil {
		return Cache{}, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	if cache.Documents == nil {
		cache.Documents = make(map[string]DocumentState)
	}
	return cache, nil
}
