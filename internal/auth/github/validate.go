package github

import "context"

// Check reports whether storedToken still authenticates against GitHub. An
// empty token is invalid without a network call. Otherwise one bearer fetch
// of the profile endpoint decides: a 2xx status is valid, anything else
// collapses to ErrTokenInvalid. Expiry, revocation and network loss are
// deliberately indistinguishable to the caller.
func (c *Client) Check(ctx context.Context, storedToken string) error {
	if storedToken == "" {
		return ErrTokenInvalid
	}
	status, _, err := c.getJSON(ctx, c.apiBaseURL+"/user", storedToken)
	if err != nil || status < 200 || status >= 300 {
		return ErrTokenInvalid
	}
	return nil
}
