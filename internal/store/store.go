// Package store provides a synchronized handle over the shared configuration.
// All cross-request reads and writes of the config go through a Store so that
// concurrent login finalizations and token checks serialize on one lock
// instead of touching a hidden global.
package store

import (
	"sync"

	"github.com/taskforge-dev/taskforge/internal/config"
)

// Store guards the in-memory configuration and its backing file.
type Store struct {
	mu   sync.RWMutex
	cfg  *config.Config
	path string
}

// New wraps cfg, persisted at path, in a synchronized store.
func New(cfg *config.Config, path string) *Store {
	return &Store{cfg: cfg, path: path}
}

// Path returns the backing config file path.
func (s *Store) Path() string {
	return s.path
}

// View runs fn with shared read access to the configuration. fn must not
// retain the pointer past its return.
func (s *Store) View(fn func(cfg *config.Config)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cfg)
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Update runs fn with exclusive write access, without persisting.
func (s *Store) Update(fn func(cfg *config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cfg)
}

// Mutate runs fn with exclusive write access and persists the result while
// still holding the lock, so the on-disk file never interleaves two writers.
// The in-memory mutation is kept even when the save fails; callers decide how
// to surface the persistence error.
func (s *Store) Mutate(fn func(cfg *config.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cfg)
	return s.cfg.Save(s.path)
}

// replace swaps the whole configuration, used by the file watcher on reload.
func (s *Store) replace(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}
