package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commercehub/backend/internal/interfaces/http/dto"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	appName   string
	startedAt time.Time
}

// NewSystemHandler creates a system handler
func NewSystemHandler(appName string) *SystemHandler {
	return &SystemHandler{appName: appName, startedAt: time.Now()}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(gin.H{
		"status": "ok",
		"app":    h.appName,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	}))
}
