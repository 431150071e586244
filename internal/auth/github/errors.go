package github

import (
	"errors"
	"fmt"
)

// UnreachableError indicates the transport call to GitHub itself failed
// (DNS, TLS, timeout, connection reset).
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("failed to contact GitHub: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates GitHub answered with a body that is not
// valid JSON.
type MalformedResponseError struct {
	Body string
}

func (e *MalformedResponseError) Error() string {
	return "failed to parse GitHub response"
}

// ProviderError indicates a well-formed response that GitHub used to reject
// the request, or one missing required fields. The raw body is kept for
// diagnostics.
type ProviderError struct {
	Body string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("GitHub error: %s", e.Body)
}

// ErrPersistenceFailed is returned by Finalize when the configuration cannot
// be saved. The in-memory configuration keeps the new credential regardless.
var ErrPersistenceFailed = errors.New("failed to save config")

// ErrTokenInvalid is the single reason Check reports for any stored token
// that no longer authenticates, whatever the underlying cause.
var ErrTokenInvalid = errors.New("github_token_invalid")
