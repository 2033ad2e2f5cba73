package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Single-user localhost deployment; origin checking is handled by
		// the CORS layer on the REST routes.
		return true
	},
}

// StreamHandler upgrades WebSocket connections for live chat events
type StreamHandler struct {
	hub    *service.StreamHub
	logger *zap.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub *service.StreamHub, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: logger,
	}
}

// ServeWS subscribes the caller to a chat session's event stream
// GET /ws?session_id=...
func (h *StreamHandler) ServeWS(c *gin.Context) {
	sessionIDStr := c.Query("session_id")
	if sessionIDStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_session_id",
			Message: "session_id query parameter is required",
		})
		return
	}

	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_session_id",
			Message: "Invalid session ID format",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &service.StreamClient{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan *service.ChatEvent, 256),
		Hub:       h.hub,
	}

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
