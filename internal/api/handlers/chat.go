package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/service"
)

// ChatHandler handles chat requests
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat runs one chat turn to completion
// POST /v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req service.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.chatService.Execute(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ChatStream runs one chat turn over server-sent events: "delta" events while
// the model generates, then one "segments" event with the parsed result.
// POST /v1/chat/stream
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req service.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	events, err := h.chatService.Stream(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	for ev := range events {
		c.SSEvent(ev.Type, ev)
		c.Writer.Flush()
	}
}
