package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestChat_RelaysMessage(t *testing.T) {
	engine, _ := newTestEnv(t, http.NotFoundHandler(), "")

	body := doRequest(t, engine, http.MethodPost, "/codex/chat", `{"message":"list the open tasks"}`)
	require.Equal(t, "list the open tasks", gjson.Get(body, "data.response").String())
	require.True(t, gjson.Get(body, "data.success").Bool())
}

func TestChat_MissingMessage(t *testing.T) {
	engine, _ := newTestEnv(t, http.NotFoundHandler(), "")

	body := doRequest(t, engine, http.MethodPost, "/codex/chat", `{}`)
	require.Equal(t, "message is required", gjson.Get(body, "error").String())
}
