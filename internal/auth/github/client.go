// Package github implements the client side of the GitHub OAuth Device
// Authorization Grant (RFC 8628). It covers starting a device-flow session,
// performing single poll attempts against the token endpoint, resolving the
// authenticated identity, validating a stored token, and finalizing a
// successful grant into the shared configuration.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/util"
)

const (
	// DeviceCodeEndpoint is GitHub's device authorization endpoint.
	DeviceCodeEndpoint = "https://github.com/login/device/code"
	// TokenEndpoint is GitHub's OAuth token exchange endpoint.
	TokenEndpoint = "https://github.com/login/oauth/access_token"
	// APIBaseURL is the base of GitHub's REST API, used for the identity
	// and email lookups.
	APIBaseURL = "https://api.github.com"

	// DefaultClientID is the registered OAuth app. GITHUB_CLIENT_ID in the
	// environment overrides it.
	DefaultClientID = "Ov23li9bxz3kKfPOIsGm"
	// Scope requests repository access plus email visibility.
	Scope = "user:email,repo"

	// GrantType identifies the device grant on the token endpoint.
	GrantType = "urn:ietf:params:oauth:grant-type:device_code"

	// userAgent is required by the GitHub API on authenticated calls.
	userAgent = "taskforge-app"
)

// Client talks to GitHub's device-flow and identity endpoints. All operations
// are single round trips; the client keeps no session state.
type Client struct {
	httpClient    *http.Client
	clientID      string
	deviceCodeURL string
	tokenURL      string
	apiBaseURL    string
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints overrides the provider endpoints, used by tests to point the
// client at a stub server.
func WithEndpoints(deviceCodeURL, tokenURL, apiBaseURL string) Option {
	return func(c *Client) {
		c.deviceCodeURL = deviceCodeURL
		c.tokenURL = tokenURL
		c.apiBaseURL = apiBaseURL
	}
}

// NewClient creates a GitHub client honoring the configured outbound proxy.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	client := &Client{
		httpClient:    util.SetProxy(cfg, &http.Client{Timeout: 30 * time.Second}),
		clientID:      DefaultClientID,
		deviceCodeURL: DeviceCodeEndpoint,
		tokenURL:      TokenEndpoint,
		apiBaseURL:    APIBaseURL,
	}
	if envID := strings.TrimSpace(os.Getenv("GITHUB_CLIENT_ID")); envID != "" {
		client.clientID = envID
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// postForm issues a form-encoded POST and returns the raw response body.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// getJSON issues a bearer-authenticated GET and returns the status code and
// raw body.
func (c *Client) getJSON(ctx context.Context, endpoint, accessToken string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
