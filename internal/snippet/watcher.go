package snippet

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch emits a notification whenever the database file changes, until ctx
// is cancelled. Changes are detected two ways: an fsnotify watch on the
// containing directory (the store replaces the file by rename, so the file
// itself cannot be watched), and an mtime poll at the given interval as a
// fallback for filesystems where fsnotify is unreliable. Notifications are
// coalesced; a slow subscriber sees at most one pending notification.
func (s *Store) Watch(ctx context.Context, pollInterval time.Duration) (<-chan struct{}, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	notify := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		defer watcher.Close()
		defer close(notify)

		lastMod := s.modTime()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		emit := func() {
			lastMod = s.modTime()
			select {
			case notify <- struct{}{}:
			default:
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					emit()
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watcher errors are non-fatal; the poll below still runs.

			case <-ticker.C:
				if mod := s.modTime(); mod.After(lastMod) {
					emit()
				}
			}
		}
	}()

	return notify, nil
}

// modTime returns the database file's mtime, or the zero time if absent.
func (s *Store) modTime() time.Time {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
