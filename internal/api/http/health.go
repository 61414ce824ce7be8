package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ranirkini2004/Open-Hub-API/internal/monitor"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Backend   string    `json:"backend,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	monitor     *monitor.Monitor
}

func NewHealthHandler(serviceName, version string, mon *monitor.Monitor) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		monitor:     mon,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	backendStatus := "disabled"
	if h.monitor != nil {
		backendStatus, _ = h.monitor.Status()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Backend:   backendStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
