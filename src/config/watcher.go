package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 200 * time.Millisecond

// Watcher reloads the store when the settings file is edited outside the app.
type Watcher struct {
	store    *Store
	onChange func(Settings)
	delay    time.Duration
}

// NewWatcher calls onChange from the watcher goroutine after each external edit
// that changes the settings. Writes made by the store itself produce no callback.
func NewWatcher(store *Store, onChange func(Settings)) *Watcher {
	return &Watcher{store: store, onChange: onChange, delay: reloadDelay}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	path := w.store.Path()
	if path == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer fw.Close()

	// The store replaces the file by rename, so watch the directory.
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Printf("config: watching %s", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(w.delay)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watcher error: %v", err)
		case <-pending:
			pending = nil
			settings, changed, err := w.store.Reload()
			if err != nil {
				log.Printf("config: reload failed: %v", err)
				continue
			}
			if changed && w.onChange != nil {
				log.Printf("config: settings changed on disk")
				w.onChange(settings)
			}
		}
	}
}
