package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessChecker reports whether a dependency is usable.
type ReadinessChecker interface {
	Configured() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	llm ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(llm ReadinessChecker) *HealthHandler {
	return &HealthHandler{llm: llm}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.llm.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "llm api key not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
