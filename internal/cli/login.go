// Package cli implements the interactive terminal flows of the taskforge
// binary.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"

	githubauth "github.com/taskforge-dev/taskforge/internal/auth/github"
)

// RunGitHubLogin drives a complete device login from the terminal: it starts
// a session, shows the one-time code, optionally opens the verification page,
// and polls at the provider-advertised interval until a terminal outcome or
// session expiry. Cancelling ctx stops the loop between attempts.
func RunGitHubLogin(ctx context.Context, gh *githubauth.Client, finalizer *githubauth.Finalizer, openBrowser bool) error {
	session, err := gh.Start(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("First, copy your one-time code: %s\n", session.UserCode)
	fmt.Printf("Then approve access at: %s\n", session.VerificationURI)
	if openBrowser {
		if errOpen := browser.OpenURL(session.VerificationURI); errOpen != nil {
			log.Warnf("could not open browser, visit the URL manually: %v", errOpen)
		}
	}

	interval := time.Duration(session.Interval) * time.Second
	if interval <= 0 {
		interval = githubauth.DefaultInterval * time.Second
	}
	deadline := time.Now().Add(time.Duration(session.ExpiresIn) * time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("device authorization expired before approval")
			}
			outcome := gh.Poll(ctx, session.DeviceCode)
			switch outcome.Status {
			case githubauth.GrantGranted:
				identity := gh.Resolve(ctx, outcome.AccessToken)
				if errFin := finalizer.Finalize(ctx, outcome.AccessToken, identity); errFin != nil {
					return errFin
				}
				name := identity.Username
				if name == "" {
					name = "GitHub user"
				}
				fmt.Printf("Logged in as %s\n", name)
				return nil
			case githubauth.GrantPending:
				if outcome.Reason == "slow_down" {
					interval += 2 * time.Second
					ticker.Reset(interval)
				}
			case githubauth.GrantDenied:
				return fmt.Errorf("GitHub login failed: %s", outcome.Reason)
			case githubauth.GrantTransportError:
				// Retryable; keep polling at the same interval.
				log.Warnf("poll attempt failed: %s", outcome.Reason)
			}
		}
	}
}
