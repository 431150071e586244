// Package handlers implements the HTTP handlers of the TaskForge API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response is a well-formed envelope with either a data or an error
// member. Errors ride in the body rather than the status code because the
// frontend switches on the envelope, not on HTTP status.

func respondData(c *gin.Context, v any) {
	c.JSON(http.StatusOK, gin.H{"data": v})
}

func respondError(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"error": message})
}
