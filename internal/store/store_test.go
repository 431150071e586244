package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskforge-dev/taskforge/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	return New(&config.Config{Port: config.DefaultPort}, path)
}

func TestMutate_PersistsUnderOneSection(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Mutate(func(cfg *config.Config) {
		cfg.GitHub.Token = "tok"
		cfg.GitHubLoginAcknowledged = true
	}))

	loaded, err := config.Load(st.Path())
	require.NoError(t, err)
	require.Equal(t, "tok", loaded.GitHub.Token)
	require.True(t, loaded.GitHubLoginAcknowledged)

	var token string
	st.View(func(cfg *config.Config) { token = cfg.GitHub.Token })
	require.Equal(t, "tok", token)
}

func TestMutate_SaveFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	// A directory at the config path makes the save fail.
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.Mkdir(path, 0o755))
	st := New(&config.Config{}, path)

	err := st.Mutate(func(cfg *config.Config) { cfg.GitHub.Token = "tok" })
	require.Error(t, err)
	require.Equal(t, "tok", st.Snapshot().GitHub.Token)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	st := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Update(func(cfg *config.Config) { cfg.Port++ })
		}()
	}
	wg.Wait()
	require.Equal(t, config.DefaultPort+16, st.Snapshot().Port)
}

func TestWatch_ReloadsOnFileChange(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Mutate(func(cfg *config.Config) {}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, st.Watch(ctx))

	updated := &config.Config{Port: 9999}
	require.NoError(t, updated.Save(st.Path()))

	require.Eventually(t, func() bool {
		return st.Snapshot().Port == 9999
	}, 5*time.Second, 50*time.Millisecond)
}
