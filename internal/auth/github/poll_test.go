package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func pollAgainst(t *testing.T, body string) GrantOutcome {
	t.Helper()
	var gotForm map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"device_code": r.PostForm.Get("device_code"),
			"grant_type":  r.PostForm.Get("grant_type"),
		}
		_, _ = w.Write([]byte(body))
	}))
	outcome := client.Poll(context.Background(), "D1")
	require.Equal(t, "D1", gotForm["device_code"])
	require.Equal(t, GrantType, gotForm["grant_type"])
	return outcome
}

func TestPoll_Pending(t *testing.T) {
	outcome := pollAgainst(t, `{"error":"authorization_pending"}`)
	require.Equal(t, GrantPending, outcome.Status)
	require.Equal(t, "authorization_pending", outcome.Reason)
	require.Empty(t, outcome.AccessToken)
}

func TestPoll_SlowDownIsPending(t *testing.T) {
	outcome := pollAgainst(t, `{"error":"slow_down"}`)
	require.Equal(t, GrantPending, outcome.Status)
	require.Equal(t, "slow_down", outcome.Reason)
}

func TestPoll_Denied(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"access denied", `{"error":"access_denied"}`, "access_denied"},
		{"expired token", `{"error":"expired_token"}`, "expired_token"},
		{"unknown code", `{"error":"incorrect_device_code"}`, "incorrect_device_code"},
		// An error field always wins, even next to an access token.
		{"error beats token", `{"error":"access_denied","access_token":"tok"}`, "access_denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := pollAgainst(t, tt.body)
			require.Equal(t, GrantDenied, outcome.Status)
			require.Equal(t, tt.reason, outcome.Reason)
			require.Empty(t, outcome.AccessToken)
		})
	}
}

func TestPoll_Granted(t *testing.T) {
	outcome := pollAgainst(t, `{"access_token":"tok_abc","token_type":"bearer","scope":"user:email,repo"}`)
	require.Equal(t, GrantGranted, outcome.Status)
	require.Equal(t, "tok_abc", outcome.AccessToken)
}

func TestPoll_EmptyResponseNeverGranted(t *testing.T) {
	outcome := pollAgainst(t, `{}`)
	require.Equal(t, GrantDenied, outcome.Status)
	require.Equal(t, ReasonEmptyResponse, outcome.Reason)
}

func TestPoll_MalformedBody(t *testing.T) {
	outcome := pollAgainst(t, "not json")
	require.Equal(t, GrantTransportError, outcome.Status)
	require.NotEmpty(t, outcome.Reason)
}

func TestPoll_ProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(nil, WithEndpoints(server.URL+"/device", server.URL+"/token", server.URL))
	server.Close()

	outcome := client.Poll(context.Background(), "D1")
	require.Equal(t, GrantTransportError, outcome.Status)
	require.Contains(t, outcome.Reason, "failed to contact GitHub")
}
