package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/crewcast/internal/contract"
)

// FileWatcher reports writes to a set of files.
// It watches the parent directories so atomic saves (write then rename) are seen.
type FileWatcher struct {
	Paths []string
}

var _ Notifier = &FileWatcher{} // Compile-time check

// NewFileWatcher returns a watcher for the given files.
func NewFileWatcher(paths ...string) *FileWatcher {
	return &FileWatcher{Paths: paths}
}

// Watch implements Notifier.
func (w *FileWatcher) Watch(ctx context.Context, changes chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]struct{}, len(w.Paths))
	dirs := make(map[string]struct{})
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
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
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; !ok {
				continue
			}
			send(ctx, changes, "file "+filepath.Base(abs))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("File watcher error", err)
		}
	}
}
