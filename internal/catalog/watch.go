package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog at path whenever it is written or replaced and
// passes the result to onReload. A catalog that fails to load is reported
// with its error and the previous one stays in use by the caller. Watch
// blocks until ctx is done.
func Watch(ctx context.Context, path string, onReload func(*Catalog, error), opts ...Option) error {
	o := newOptions(opts)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)) {
				continue
			}
			o.logger.Info("catalog change detected", "file", event.Name)
			c, err := Load(path, opts...)
			if err != nil {
				o.logger.Error("failed to reload catalog", "error", err)
			}
			onReload(c, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Error("catalog watcher error", "error", err)
		}
	}
}
