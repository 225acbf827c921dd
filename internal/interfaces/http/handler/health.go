package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	version   string
	model     string
	startTime time.Time
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Model     string `json:"model,omitempty"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version, model string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		model:     model,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the health route on rg
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Model:     h.model,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
