// Package telemetry emits product analytics events to a PostHog-compatible
// capture endpoint. Emission is strictly fire-and-forget: failures are logged
// and never propagated, so analytics can never fail a login flow.
package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"

	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/util"
)

// DefaultEndpoint is used when the config does not name a capture endpoint.
const DefaultEndpoint = "https://us.i.posthog.com/capture/"

// Tracker posts capture events for one installation.
type Tracker struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	distinctID string
}

// NewTracker builds a tracker from the analytics configuration. A missing API
// key returns a disabled tracker whose Capture is a no-op. The distinct id
// falls back to a freshly generated UUID when the config has none persisted.
func NewTracker(cfg *config.Config) *Tracker {
	tracker := &Tracker{
		httpClient: util.SetProxy(cfg, &http.Client{Timeout: 10 * time.Second}),
		endpoint:   cfg.Analytics.Endpoint,
		apiKey:     cfg.Analytics.APIKey,
		distinctID: cfg.Analytics.DistinctID,
	}
	if tracker.endpoint == "" {
		tracker.endpoint = DefaultEndpoint
	}
	if tracker.distinctID == "" {
		tracker.distinctID = uuid.NewString()
	}
	return tracker
}

// Enabled reports whether events will actually be sent.
func (t *Tracker) Enabled() bool {
	return t != nil && t.apiKey != ""
}

// Capture posts one event with a flat property set. An event with an empty
// property set is still sent. Errors are logged at debug level only; callers
// get no signal back.
func (t *Tracker) Capture(ctx context.Context, event string, properties map[string]string) {
	if !t.Enabled() {
		return
	}

	payload, _ := sjson.Set("", "api_key", t.apiKey)
	payload, _ = sjson.Set(payload, "event", event)
	payload, _ = sjson.Set(payload, "distinct_id", t.distinctID)
	payload, _ = sjson.Set(payload, "timestamp", time.Now().UTC().Format(time.RFC3339))
	payload, _ = sjson.Set(payload, "properties", map[string]string{})
	for key, value := range properties {
		payload, _ = sjson.Set(payload, "properties."+key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader([]byte(payload)))
	if err != nil {
		log.Debugf("analytics event %s dropped: %v", event, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		log.Debugf("analytics event %s dropped: %v", event, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		log.Debugf("analytics event %s answered %d", event, resp.StatusCode)
	}
}
