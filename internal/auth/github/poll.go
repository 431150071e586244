package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// GrantStatus classifies the result of one poll attempt.
type GrantStatus int

const (
	// GrantGranted means GitHub issued an access token.
	GrantGranted GrantStatus = iota
	// GrantPending means the user has not acted on the request yet; the
	// caller should poll again after the session interval.
	GrantPending
	// GrantDenied means GitHub terminated the grant (denial, expiry, or an
	// unrecognised error code).
	GrantDenied
	// GrantTransportError means GitHub could not be reached or its response
	// could not be parsed; the attempt is retryable.
	GrantTransportError
)

// pendingErrorCodes are the provider error codes that mean "keep polling".
// slow_down additionally asks the caller to widen its polling interval.
var pendingErrorCodes = map[string]bool{
	"authorization_pending": true,
	"slow_down":             true,
}

// ReasonEmptyResponse is reported when the token endpoint answers with
// neither an access token nor an error code.
const ReasonEmptyResponse = "empty response"

// GrantOutcome is the result of a single poll attempt against the token
// endpoint.
type GrantOutcome struct {
	Status GrantStatus

	// AccessToken is set when Status is GrantGranted.
	AccessToken string

	// Reason carries the raw provider error code for GrantPending and
	// GrantDenied, or a transport error message for GrantTransportError.
	Reason string
}

// Poll performs exactly one exchange attempt for deviceCode against the token
// endpoint. "Not yet authorized" is a normal GrantPending outcome, not an
// error. Poll holds no timer state and enforces no throttling of its own;
// callers must space successive calls by at least the session interval.
func (c *Client) Poll(ctx context.Context, deviceCode string) GrantOutcome {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("device_code", deviceCode)
	form.Set("grant_type", GrantType)

	body, err := c.postForm(ctx, c.tokenURL, form)
	if err != nil {
		return GrantOutcome{Status: GrantTransportError, Reason: fmt.Sprintf("failed to contact GitHub: %v", err)}
	}
	if !gjson.ValidBytes(body) {
		return GrantOutcome{Status: GrantTransportError, Reason: "failed to parse GitHub response"}
	}

	root := gjson.ParseBytes(body)
	if errCode := root.Get("error"); errCode.Exists() {
		reason := errCode.String()
		if pendingErrorCodes[reason] {
			return GrantOutcome{Status: GrantPending, Reason: reason}
		}
		return GrantOutcome{Status: GrantDenied, Reason: reason}
	}
	if token := root.Get("access_token"); token.Type == gjson.String && token.String() != "" {
		return GrantOutcome{Status: GrantGranted, AccessToken: token.String()}
	}
	return GrantOutcome{Status: GrantDenied, Reason: ReasonEmptyResponse}
}
