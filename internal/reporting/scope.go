// Package reporting keeps process-wide diagnostic context attributed to the
// currently logged-in GitHub identity. It is the local stand-in for an error
// reporter's user scope: a logrus hook stamps the identity onto every warning
// and error entry, and Refresh re-reads the shared store after any token
// change.
package reporting

import (
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/store"
)

// Scope is a logrus hook carrying the current identity.
type Scope struct {
	mu       sync.RWMutex
	store    *store.Store
	username string
	email    string
}

// NewScope builds a scope over the shared store and primes it with the
// currently stored identity. Install installs the hook.
func NewScope(st *store.Store) *Scope {
	scope := &Scope{store: st}
	scope.Refresh()
	return scope
}

// Install registers the scope on the shared logger.
func (s *Scope) Install() {
	log.AddHook(s)
}

// Refresh re-reads the stored identity. Call after any token change.
func (s *Scope) Refresh() {
	var username, email string
	s.store.View(func(cfg *config.Config) {
		username = cfg.GitHub.Username
		email = cfg.GitHub.PrimaryEmail
	})
	s.mu.Lock()
	s.username = username
	s.email = email
	s.mu.Unlock()
}

// Levels implements logrus.Hook. Identity is only attached where it helps
// triage: warnings and worse.
func (s *Scope) Levels() []log.Level {
	return []log.Level{log.WarnLevel, log.ErrorLevel, log.FatalLevel, log.PanicLevel}
}

// Fire implements logrus.Hook.
func (s *Scope) Fire(entry *log.Entry) error {
	s.mu.RLock()
	username, email := s.username, s.email
	s.mu.RUnlock()
	if username != "" {
		entry.Data["github_user"] = username
	}
	if email != "" {
		entry.Data["github_email"] = email
	}
	return nil
}

// Middleware refreshes the scope before each request, so log entries emitted
// while handling it are attributed to the identity current at that moment.
func (s *Scope) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Refresh()
		c.Next()
	}
}
