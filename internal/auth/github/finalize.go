package github

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/taskforge-dev/taskforge/internal/config"
)

// ConfigMutator is the slice of the shared store the finalizer needs: one
// exclusive mutate-and-persist section.
type ConfigMutator interface {
	Mutate(fn func(cfg *config.Config)) error
}

// ScopeRefresher re-stamps process-wide diagnostic context after the stored
// identity changes.
type ScopeRefresher interface {
	Refresh()
}

// EventTracker emits fire-and-forget analytics events.
type EventTracker interface {
	Capture(ctx context.Context, event string, properties map[string]string)
}

// Finalizer persists a successful grant and fans out the follow-up side
// effects.
type Finalizer struct {
	store   ConfigMutator
	scope   ScopeRefresher
	tracker EventTracker
}

// NewFinalizer creates a Finalizer. scope and tracker may be nil, in which
// case the corresponding side effect is skipped.
func NewFinalizer(store ConfigMutator, scope ScopeRefresher, tracker EventTracker) *Finalizer {
	return &Finalizer{store: store, scope: scope, tracker: tracker}
}

// Finalize writes the token and identity into the shared configuration under
// a single exclusive write section, flips the login-acknowledged flag, and
// persists. A save failure returns ErrPersistenceFailed without rolling back
// the in-memory mutation, and skips the follow-up effects. After a successful
// persist the diagnostic scope is refreshed and one identify event is emitted
// carrying whichever identity attributes are present; those two effects are
// fire-and-forget and never affect the returned error.
func (f *Finalizer) Finalize(ctx context.Context, accessToken string, identity Identity) error {
	err := f.store.Mutate(func(cfg *config.Config) {
		cfg.GitHub.Username = identity.Username
		cfg.GitHub.PrimaryEmail = identity.PrimaryEmail
		cfg.GitHub.Token = accessToken
		cfg.GitHubLoginAcknowledged = true
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	if f.scope != nil {
		f.scope.Refresh()
	}
	if f.tracker != nil {
		properties := map[string]string{}
		if identity.Username != "" {
			properties["username"] = identity.Username
		}
		if identity.PrimaryEmail != "" {
			properties["email"] = identity.PrimaryEmail
		}
		f.tracker.Capture(ctx, "$identify", properties)
	}

	log.WithFields(log.Fields{
		"username": identity.Username,
	}).Info("GitHub login finalized")
	return nil
}
