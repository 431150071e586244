// Package api provides the HTTP API server for TaskForge. It wires the Gin
// engine, middleware for logging, metrics and panic recovery, and the GitHub
// device-login and chat-relay routes.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/api/handlers"
	"github.com/taskforge-dev/taskforge/internal/api/middleware"
	"github.com/taskforge-dev/taskforge/internal/logging"
	"github.com/taskforge-dev/taskforge/internal/reporting"
	"github.com/taskforge-dev/taskforge/internal/store"
)

// Server represents the main API server. It encapsulates the Gin engine, the
// underlying HTTP server, and the request handlers.
type Server struct {
	engine *gin.Engine
	server *http.Server
}

// NewServer creates and initializes a new API server instance listening on
// the configured port.
func NewServer(st *store.Store, handler *handlers.Handler, scope *reporting.Scope) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logging.GinLogrusLogger())
	engine.Use(logging.GinLogrusRecovery())
	engine.Use(middleware.PrometheusMiddleware())
	if scope != nil {
		engine.Use(scope.Middleware())
	}

	authGroup := engine.Group("/auth/github")
	authGroup.POST("/device/start", handler.DeviceStart)
	authGroup.POST("/device/poll", handler.DevicePoll)
	authGroup.GET("/check", handler.CheckToken)
	engine.POST("/codex/chat", handler.Chat)

	engine.GET("/metrics", middleware.MetricsHandler())
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	})

	port := st.Snapshot().Port
	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
