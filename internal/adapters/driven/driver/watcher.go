package driver

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/xuie0000/wordbook/internal/logger"
)

// Watcher notices the driver artifact appearing in the data directory,
// typically installed by a sibling process. The service uses it while in
// NO_DRIVER to retry initialization without a manual trigger.
type Watcher struct {
	fs *fsnotify.Watcher
}

// WatchArtifact watches dir for the named artifact file being created or
// renamed into place and invokes onInstalled each time. The callback runs
// on the watcher's goroutine.
func WatchArtifact(dir, name string, onInstalled func()) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating artifact watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{fs: fs}
	go w.run(name, onInstalled)
	return w, nil
}

func (w *Watcher) run(name string, onInstalled func()) {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Info("driver: artifact appeared on disk")
				onInstalled()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("driver: artifact watcher: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
