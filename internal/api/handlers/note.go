package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

// NoteHandler handles research note HTTP requests
type NoteHandler struct {
	repo   *file.NoteRepository
	logger *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(repo *file.NoteRepository, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		repo:   repo,
		logger: logger,
	}
}

// NoteRequest represents a note create or update request
type NoteRequest struct {
	Title   string   `json:"title" binding:"required"`
	Symbols []string `json:"symbols,omitempty" binding:"omitempty,dive,symbol"`
	Content string   `json:"content" binding:"required"`
}

func (r NoteRequest) toDomain() *domain.ResearchNote {
	symbols := make([]string, 0, len(r.Symbols))
	for _, s := range r.Symbols {
		symbols = append(symbols, strings.ToUpper(s))
	}
	return &domain.ResearchNote{
		Title:   r.Title,
		Symbols: symbols,
		Content: r.Content,
	}
}

// List lists all notes, most recently updated first
// GET /v1/notes
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.repo.List()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: notes, Total: len(notes)})
}

// Get retrieves a note by ID
// GET /v1/notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.repo.Get(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// Create creates a new note
// POST /v1/notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	n := req.toDomain()
	if err := h.repo.Create(n); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// Update replaces a note
// PUT /v1/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	n := req.toDomain()
	n.ID = id
	if err := h.repo.Update(n); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// Delete removes a note
// DELETE /v1/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
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
