package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/taskforge-dev/taskforge/internal/config"
)

// Watch reloads the configuration when the backing file changes on disk,
// until ctx is cancelled. Events are debounced because editors and the
// store's own saves produce bursts of writes for a single logical change.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: most editors replace the file via rename, which
	// drops a watch registered on the file itself.
	if err = watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		var pending *time.Timer
		reload := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(250*time.Millisecond, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("config watcher error: %v", err)
			case <-reload:
				cfg, errLoad := config.Load(s.path)
				if errLoad != nil {
					log.Warnf("config reload skipped: %v", errLoad)
					continue
				}
				s.replace(cfg)
				log.Infof("config reloaded from %s", s.path)
			}
		}
	}()
	return nil
}
