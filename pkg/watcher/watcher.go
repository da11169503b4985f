// Package watcher reloads files when they change on disk.
//
// Editors often save by writing a temporary file and renaming it over the
// original, so the directory holding the file is watched rather than the
// file itself. Bursts of events are coalesced by a [Debouncer].
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures Watch.
type Options struct {
	// Debounce is the quiet period before fn runs. Zero means
	// DefaultDebounceDuration.
	Debounce time.Duration

	// OnError receives watcher errors. Watching continues after them.
	OnError func(error)
}

// Watch calls fn after each change to the file at path, until ctx is done.
// Changes arriving within the debounce window are reported once. fn runs on
// its own goroutine, never concurrently with itself.
func Watch(ctx context.Context, path string, fn func(), opts Options) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var running sync.Mutex
	deb := NewDebouncer(opts.Debounce)
	defer deb.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, abs) {
				continue
			}
			deb.Trigger(func() {
				running.Lock()
				defer running.Unlock()
				if ctx.Err() == nil {
					fn()
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}
		}
	}
}

func relevant(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
