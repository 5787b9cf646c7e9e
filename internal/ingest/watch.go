package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"graphrag/internal/contextutil"
)

// debounceDelay is how long a file must stay quiet after a write before it
// is ingested. Editors and sync tools emit bursts of events per save.
const debounceDelay = 500 * time.Millisecond

type eventAction int

const (
	actionNone eventAction = iota
	actionIngest
	actionRemove
)

// classifyEvent maps a watcher event to the pipeline action it requires.
// Non-document paths are ignored; a rename is a removal of the old name
// (the new name arrives as its own create event).
func classifyEvent(event fsnotify.Event) eventAction {
	if !isDocFile(filepath.Base(event.Name)) {
		return actionNone
	}
	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		return actionIngest
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		return actionRemove
	default:
		return actionNone
	}
}

// Watch ingests documents in dir as they change until ctx is cancelled.
// Create and write events are debounced per file; remove and rename events
// take the tombstone path immediately.
func (i *Ingestor) Watch(ctx context.Context, dir string) error {
	logger := contextutil.LoggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder: %w", err)
	}
	logger.InfoContext(ctx, "watching docs folder", "dir", dir)

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := timers[path]; ok {
			timer.Stop()
		}
		timers[path] = time.AfterFunc(debounceDelay, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()

			if _, err := i.IngestFile(ctx, path); err != nil {
				logger.ErrorContext(ctx, "failed to ingest file", "file", filepath.Base(path), "error", err)
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch classifyEvent(event) {
			case actionIngest:
				schedule(event.Name)
			case actionRemove:
				fileName := filepath.Base(event.Name)
				if err := i.RemoveFile(ctx, fileName); err != nil {
					logger.ErrorContext(ctx, "failed to remove deleted file", "file", fileName, "error", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watcher error", "error", err)
		}
	}
}
