// Package middleware provides HTTP middleware components for the TaskForge
// server. This file contains Prometheus metrics middleware for observability.
package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// httpRequestsTotal counts the total number of HTTP requests processed.
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskforge_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDurationSeconds tracks the duration of HTTP requests.
	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskforge_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// loginOutcomesTotal counts terminal results of GitHub login poll attempts.
	loginOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskforge_github_login_outcomes_total",
			Help: "Total GitHub device login poll outcomes",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(httpRequestDurationSeconds)
		prometheus.MustRegister(loginOutcomesTotal)
	})
}

// PrometheusMiddleware returns a Gin middleware that records request counts
// and durations. Route template paths are used so path cardinality stays
// bounded.
func PrometheusMiddleware() gin.HandlerFunc {
	registerMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordLoginOutcome increments the login outcome counter. outcome is one of
// granted, pending, denied, or transport_error.
func RecordLoginOutcome(outcome string) {
	registerMetrics()
	loginOutcomesTotal.WithLabelValues(outcome).Inc()
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	registerMetrics()
	return gin.WrapH(promhttp.Handler())
}
