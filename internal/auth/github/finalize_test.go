package github

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskforge-dev/taskforge/internal/config"
)

type fakeMutator struct {
	cfg     config.Config
	saveErr error
	calls   int
}

func (f *fakeMutator) Mutate(fn func(cfg *config.Config)) error {
	f.calls++
	fn(&f.cfg)
	return f.saveErr
}

type fakeScope struct {
	refreshed int
}

func (f *fakeScope) Refresh() { f.refreshed++ }

type fakeTracker struct {
	events []string
	props  []map[string]string
}

func (f *fakeTracker) Capture(_ context.Context, event string, properties map[string]string) {
	f.events = append(f.events, event)
	f.props = append(f.props, properties)
}

func TestFinalize_WritesConfigAndEmitsIdentify(t *testing.T) {
	mutator := &fakeMutator{}
	scope := &fakeScope{}
	tracker := &fakeTracker{}
	finalizer := NewFinalizer(mutator, scope, tracker)

	identity := Identity{Username: "alice", PrimaryEmail: "a@x.com"}
	require.NoError(t, finalizer.Finalize(context.Background(), "tok_abc", identity))

	require.Equal(t, 1, mutator.calls)
	require.Equal(t, "tok_abc", mutator.cfg.GitHub.Token)
	require.Equal(t, "alice", mutator.cfg.GitHub.Username)
	require.Equal(t, "a@x.com", mutator.cfg.GitHub.PrimaryEmail)
	require.True(t, mutator.cfg.GitHubLoginAcknowledged)

	require.Equal(t, 1, scope.refreshed)
	require.Equal(t, []string{"$identify"}, tracker.events)
	require.Equal(t, map[string]string{"username": "alice", "email": "a@x.com"}, tracker.props[0])
}

func TestFinalize_EmptyIdentityStillEmitsEvent(t *testing.T) {
	tracker := &fakeTracker{}
	finalizer := NewFinalizer(&fakeMutator{}, &fakeScope{}, tracker)

	require.NoError(t, finalizer.Finalize(context.Background(), "tok", Identity{}))
	require.Equal(t, []string{"$identify"}, tracker.events)
	require.Empty(t, tracker.props[0])
}

func TestFinalize_SaveFailureSkipsSideEffects(t *testing.T) {
	mutator := &fakeMutator{saveErr: errors.New("disk full")}
	scope := &fakeScope{}
	tracker := &fakeTracker{}
	finalizer := NewFinalizer(mutator, scope, tracker)

	err := finalizer.Finalize(context.Background(), "tok", Identity{Username: "alice"})
	require.ErrorIs(t, err, ErrPersistenceFailed)

	// The in-memory mutation is kept even though the save failed.
	require.Equal(t, "tok", mutator.cfg.GitHub.Token)

	require.Zero(t, scope.refreshed)
	require.Empty(t, tracker.events)
}

func TestFinalize_NilCollaboratorsAreSkipped(t *testing.T) {
	finalizer := NewFinalizer(&fakeMutator{}, nil, nil)
	require.NoError(t, finalizer.Finalize(context.Background(), "tok", Identity{}))
}
