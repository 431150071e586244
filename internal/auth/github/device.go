package github

import (
	"context"
	"math"
	"net/url"

	"github.com/tidwall/gjson"
)

const (
	// DefaultExpiresIn is applied when the provider's expires_in does not
	// fit the session's range.
	DefaultExpiresIn = 600
	// DefaultInterval is applied when the provider's interval does not fit
	// the session's range.
	DefaultInterval = 5
)

// DeviceAuthorization is the ephemeral session returned by Start. The device
// code is used only for polling and must never be shown to the user; the user
// code and verification URI are what the user needs to approve the request.
// Expiry enforcement is the caller's responsibility.
type DeviceAuthorization struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// Start initiates the device authorization flow with a single request to the
// device-code endpoint. All five response fields must be present and
// correctly typed; out-of-range expires_in/interval values are coerced to
// defaults rather than failing the call. Start never retries.
func (c *Client) Start(ctx context.Context) (*DeviceAuthorization, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("scope", Scope)

	body, err := c.postForm(ctx, c.deviceCodeURL, form)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	if !gjson.ValidBytes(body) {
		return nil, &MalformedResponseError{Body: string(body)}
	}

	root := gjson.ParseBytes(body)
	deviceCode := root.Get("device_code")
	userCode := root.Get("user_code")
	verificationURI := root.Get("verification_uri")
	expiresIn, okExpires := coerceSeconds(root.Get("expires_in"), DefaultExpiresIn)
	interval, okInterval := coerceSeconds(root.Get("interval"), DefaultInterval)

	if deviceCode.Type != gjson.String || userCode.Type != gjson.String ||
		verificationURI.Type != gjson.String || !okExpires || !okInterval {
		return nil, &ProviderError{Body: string(body)}
	}

	return &DeviceAuthorization{
		DeviceCode:      deviceCode.String(),
		UserCode:        userCode.String(),
		VerificationURI: verificationURI.String(),
		ExpiresIn:       expiresIn,
		Interval:        interval,
	}, nil
}

// coerceSeconds validates a provider-reported duration field. A missing,
// non-numeric or negative value is a provider error; a value too large for
// the session's range falls back to def.
func coerceSeconds(res gjson.Result, def int) (int, bool) {
	if res.Type != gjson.Number {
		return 0, false
	}
	n := res.Int()
	if n < 0 {
		return 0, false
	}
	if n > math.MaxUint32 {
		return def, true
	}
	return int(n), true
}
