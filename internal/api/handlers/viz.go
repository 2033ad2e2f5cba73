package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/viz"
)

// VizHandler exposes the visualization markup parser directly, so clients can
// re-parse stored assistant messages without replaying a chat turn.
type VizHandler struct {
	logger *zap.Logger
}

// NewVizHandler creates a new viz handler
func NewVizHandler(logger *zap.Logger) *VizHandler {
	return &VizHandler{logger: logger}
}

// ParseRequest represents a parse request
type ParseRequest struct {
	Text string `json:"text" binding:"required"`
}

// Parse parses visualization markup out of assistant text
// POST /v1/viz/parse
func (h *VizHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if !bindJSON(c, &req) {
		return
	}

	result := viz.Parse(req.Text)
	c.JSON(http.StatusOK, result)
}
