package pointing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 250 * time.Millisecond

// Watch monitors the pointing table file at path and reloads it into store
// whenever it changes on disk. Watches the parent directory so atomic
// rename-over-write (the common editor and download pattern) is seen.
// Blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, store *Store, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	logger.Info("watching pointing table", "path", path)

	var debounce *time.Timer
	reload := func() {
		if err := Reload(path, store, logger); err != nil {
			logger.Warn("pointing table reload failed, keeping previous table", "path", path, "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Coalesce bursts of events from a single save.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("pointing table watch error", "error", err)
		}
	}
}

// Reload parses the table file at path and atomically swaps it into store.
func Reload(path string, store *Store, logger *slog.Logger) error {
	store.Lock()
	defer store.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening pointing table: %w", err)
	}
	defer f.Close()

	table, err := Parse(f, logger)
	if err != nil {
		return err
	}

	store.Set(&Snapshot{
		Table:    table,
		Source:   path,
		LoadedAt: time.Now(),
	})
	logger.Info("pointing table loaded", "path", path, "sectors", table.Len())
	return nil
}
