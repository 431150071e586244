package github

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// Identity holds the best-effort account attributes resolved after a grant.
// Either field may be empty; resolution never fails the login.
type Identity struct {
	Username     string
	PrimaryEmail string
}

// Resolve fetches the authenticated account's login and primary email with
// the bearer token. The two lookups run concurrently and degrade
// independently: a failed or malformed response leaves its field empty.
func (c *Client) Resolve(ctx context.Context, accessToken string) Identity {
	var identity Identity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status, body, err := c.getJSON(gctx, c.apiBaseURL+"/user", accessToken)
		if err != nil {
			log.Warnf("failed to fetch GitHub user info: %v", err)
			return nil
		}
		if status < 200 || status >= 300 {
			log.Warnf("GitHub user info request answered %d", status)
			return nil
		}
		if login := gjson.GetBytes(body, "login"); login.Type == gjson.String {
			identity.Username = login.String()
		}
		return nil
	})
	g.Go(func() error {
		status, body, err := c.getJSON(gctx, c.apiBaseURL+"/user/emails", accessToken)
		if err != nil {
			log.Warnf("failed to fetch GitHub user emails: %v", err)
			return nil
		}
		if status < 200 || status >= 300 {
			log.Warnf("GitHub user emails request answered %d", status)
			return nil
		}
		root := gjson.ParseBytes(body)
		if !root.IsArray() {
			return nil
		}
		for _, entry := range root.Array() {
			if !entry.Get("primary").Bool() {
				continue
			}
			if email := entry.Get("email"); email.Type == gjson.String {
				identity.PrimaryEmail = email.String()
			}
			break
		}
		return nil
	})
	_ = g.Wait()

	return identity
}
