package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the freshly loaded config every time the file at
// path is written or replaced. It blocks until ctx is done. The directory is
// watched rather than the file, editors and k8s config maps swap files by rename.
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watcher.Add: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cf, err := Load(path)
			if err != nil {
				onError(fmt.Errorf("Load: %w", err))
				continue
			}
			onChange(cf)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}
