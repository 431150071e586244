package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/api/middleware"
	githubauth "github.com/taskforge-dev/taskforge/internal/auth/github"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/executor"
	"github.com/taskforge-dev/taskforge/internal/store"
)

// Handler carries the dependencies of the API handlers.
type Handler struct {
	store     *store.Store
	github    *githubauth.Client
	finalizer *githubauth.Finalizer
	executor  *executor.Executor
}

// New creates a Handler.
func New(st *store.Store, gh *githubauth.Client, finalizer *githubauth.Finalizer, exec *executor.Executor) *Handler {
	return &Handler{store: st, github: gh, finalizer: finalizer, executor: exec}
}

// DeviceStart handles POST /api/auth/github/device/start. It initiates one
// device-flow session and returns the user-facing verification data.
func (h *Handler) DeviceStart(c *gin.Context) {
	session, err := h.github.Start(c.Request.Context())
	if err != nil {
		respondError(c, err.Error())
		return
	}
	respondData(c, session)
}

type devicePollRequest struct {
	DeviceCode string `json:"device_code"`
}

// DevicePoll handles POST /api/auth/github/device/poll. It performs exactly
// one exchange attempt; the frontend re-invokes it at the session's interval
// until a terminal outcome. On a grant it resolves the identity, finalizes
// the session into the shared config, and reports success.
func (h *Handler) DevicePoll(c *gin.Context) {
	var req devicePollRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceCode == "" {
		respondError(c, "device_code is required")
		return
	}

	ctx := c.Request.Context()
	outcome := h.github.Poll(ctx, req.DeviceCode)
	switch outcome.Status {
	case githubauth.GrantGranted:
		middleware.RecordLoginOutcome("granted")
		identity := h.github.Resolve(ctx, outcome.AccessToken)
		if err := h.finalizer.Finalize(ctx, outcome.AccessToken, identity); err != nil {
			if errors.Is(err, githubauth.ErrPersistenceFailed) {
				respondError(c, "Failed to save config")
				return
			}
			respondError(c, err.Error())
			return
		}
		respondData(c, "GitHub login successful")
	case githubauth.GrantPending:
		middleware.RecordLoginOutcome("pending")
		respondError(c, outcome.Reason)
	case githubauth.GrantDenied:
		middleware.RecordLoginOutcome("denied")
		if outcome.Reason == githubauth.ReasonEmptyResponse {
			respondError(c, "No access token yet")
			return
		}
		respondError(c, outcome.Reason)
	default:
		middleware.RecordLoginOutcome("transport_error")
		respondError(c, outcome.Reason)
	}
}

// CheckToken handles GET /api/auth/github/check. It answers whether the
// stored credential still authenticates, collapsing every failure mode to the
// same generic reason.
func (h *Handler) CheckToken(c *gin.Context) {
	var token string
	h.store.View(func(cfg *config.Config) {
		token = cfg.GitHub.Token
	})
	if err := h.github.Check(c.Request.Context(), token); err != nil {
		respondError(c, err.Error())
		return
	}
	respondData(c, nil)
}
