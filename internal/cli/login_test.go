package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	githubauth "github.com/taskforge-dev/taskforge/internal/auth/github"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/store"
)

func TestRunGitHubLogin_PollsUntilGranted(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/device/code":
			_, _ = w.Write([]byte(`{"device_code":"D1","user_code":"ABCD-1234","verification_uri":"https://example/activate","expires_in":600,"interval":1}`))
		case "/login/oauth/access_token":
			if polls.Add(1) < 2 {
				_, _ = w.Write([]byte(`{"error":"authorization_pending"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"tok_abc"}`))
		case "/user":
			_, _ = w.Write([]byte(`{"login":"alice"}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[{"email":"a@x.com","primary":true}]`))
		}
	}))
	defer server.Close()

	gh := githubauth.NewClient(nil,
		githubauth.WithHTTPClient(server.Client()),
		githubauth.WithEndpoints(server.URL+"/login/device/code", server.URL+"/login/oauth/access_token", server.URL),
	)
	st := store.New(&config.Config{}, filepath.Join(t.TempDir(), "config.yaml"))
	finalizer := githubauth.NewFinalizer(st, nil, nil)

	require.NoError(t, RunGitHubLogin(context.Background(), gh, finalizer, false))
	require.GreaterOrEqual(t, polls.Load(), int64(2))
	require.Equal(t, "tok_abc", st.Snapshot().GitHub.Token)
	require.Equal(t, "alice", st.Snapshot().GitHub.Username)
}

func TestRunGitHubLogin_DeniedStopsPolling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/device/code":
			_, _ = w.Write([]byte(`{"device_code":"D1","user_code":"AB","verification_uri":"https://x","expires_in":600,"interval":1}`))
		case "/login/oauth/access_token":
			_, _ = w.Write([]byte(`{"error":"access_denied"}`))
		}
	}))
	defer server.Close()

	gh := githubauth.NewClient(nil,
		githubauth.WithHTTPClient(server.Client()),
		githubauth.WithEndpoints(server.URL+"/login/device/code", server.URL+"/login/oauth/access_token", server.URL),
	)
	finalizer := githubauth.NewFinalizer(store.New(&config.Config{}, filepath.Join(t.TempDir(), "config.yaml")), nil, nil)

	err := RunGitHubLogin(context.Background(), gh, finalizer, false)
	require.ErrorContains(t, err, "access_denied")
}

func TestRunGitHubLogin_CancelStopsLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/device/code":
			_, _ = w.Write([]byte(`{"device_code":"D1","user_code":"AB","verification_uri":"https://x","expires_in":600,"interval":1}`))
		case "/login/oauth/access_token":
			_, _ = w.Write([]byte(`{"error":"authorization_pending"}`))
		}
	}))
	defer server.Close()

	gh := githubauth.NewClient(nil,
		githubauth.WithHTTPClient(server.Client()),
		githubauth.WithEndpoints(server.URL+"/login/device/code", server.URL+"/login/oauth/access_token", server.URL),
	)
	finalizer := githubauth.NewFinalizer(store.New(&config.Config{}, filepath.Join(t.TempDir(), "config.yaml")), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	err := RunGitHubLogin(ctx, gh, finalizer, false)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
