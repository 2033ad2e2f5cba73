package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	dataDir string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dataDir string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		dataDir: dataDir,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services,omitempty"`
}

// Health handles the health check endpoint
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: "1.0.0",
	})
}

// Ready handles the readiness check endpoint. The data directory must exist
// and be writable before the server can serve traffic.
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	services := make(map[string]string)
	allHealthy := true

	if err := checkWritable(h.dataDir); err != nil {
		h.logger.Error("data dir check failed", zap.String("dir", h.dataDir), zap.Error(err))
		services["data_dir"] = "unhealthy"
		allHealthy = false
	} else {
		services["data_dir"] = "healthy"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:   status,
		Version:  "1.0.0",
		Services: services,
	})
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".readycheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
