package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/repository/file"
)

// SessionHandler handles chat session HTTP requests
type SessionHandler struct {
	repo   *file.SessionRepository
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(repo *file.SessionRepository, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		repo:   repo,
		logger: logger,
	}
}

// List lists all chat sessions, most recently updated first
// GET /v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.repo.List()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: sessions, Total: len(sessions)})
}

// Get retrieves a session with its full message history
// GET /v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := h.repo.Get(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Delete removes a session
// DELETE /v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
