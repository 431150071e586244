package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message     string `json:"message"`
	ProjectPath string `json:"project_path"`
}

type chatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// Chat handles POST /api/codex/chat. It relays a free-text instruction to the
// local coding-agent CLI in the given project directory and returns the
// captured output. The relay is a stateless one-shot proxy.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		respondError(c, "message is required")
		return
	}

	output, err := h.executor.Execute(c.Request.Context(), req.ProjectPath, req.Message)
	if err != nil {
		respondError(c, fmt.Sprintf("Failed to execute agent: %v", err))
		return
	}
	respondData(c, chatResponse{Response: output, Success: true})
}
