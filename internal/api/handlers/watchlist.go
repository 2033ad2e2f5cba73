package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/service"
)

// WatchlistHandler handles watchlist-related HTTP requests
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
	logger           *zap.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlistService *service.WatchlistService, logger *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
		logger:           logger,
	}
}

// WatchlistRequest represents a watchlist create or update request
type WatchlistRequest struct {
	Name    string   `json:"name" binding:"required"`
	Symbols []string `json:"symbols" binding:"dive,symbol"`
}

// List lists all watchlists
// GET /v1/watchlists
func (h *WatchlistHandler) List(c *gin.Context) {
	watchlists, err := h.watchlistService.List()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: watchlists, Total: len(watchlists)})
}

// Get retrieves a watchlist by ID
// GET /v1/watchlists/:id
func (h *WatchlistHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	w, err := h.watchlistService.Get(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Create creates a new watchlist
// POST /v1/watchlists
func (h *WatchlistHandler) Create(c *gin.Context) {
	var req WatchlistRequest
	if !bindJSON(c, &req) {
		return
	}

	w := &domain.Watchlist{Name: req.Name, Symbols: req.Symbols}
	if err := h.watchlistService.Create(w); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// Update replaces a watchlist
// PUT /v1/watchlists/:id
func (h *WatchlistHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req WatchlistRequest
	if !bindJSON(c, &req) {
		return
	}

	w := &domain.Watchlist{ID: id, Name: req.Name, Symbols: req.Symbols}
	if err := h.watchlistService.Update(w); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Delete removes a watchlist
// DELETE /v1/watchlists/:id
func (h *WatchlistHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.watchlistService.Delete(id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Quotes returns the latest stored close for every symbol on the watchlist
// GET /v1/watchlists/:id/quotes
func (h *WatchlistHandler) Quotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	quotes, err := h.watchlistService.Quotes(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: quotes, Total: len(quotes)})
}
