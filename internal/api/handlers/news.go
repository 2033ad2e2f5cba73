package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/service"
)

// NewsHandler handles news-related HTTP requests
type NewsHandler struct {
	newsService *service.NewsService
	logger      *zap.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(newsService *service.NewsService, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		logger:      logger,
	}
}

// NewsRequest represents a news item submission
type NewsRequest struct {
	Symbol      string     `json:"symbol" binding:"required,symbol"`
	Headline    string     `json:"headline" binding:"required"`
	Summary     string     `json:"summary,omitempty"`
	Source      string     `json:"source,omitempty"`
	URL         string     `json:"url,omitempty" binding:"omitempty,url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Add stores a news item
// POST /v1/news
func (h *NewsHandler) Add(c *gin.Context) {
	var req NewsRequest
	if !bindJSON(c, &req) {
		return
	}

	item := &domain.NewsItem{
		Symbol:   req.Symbol,
		Headline: req.Headline,
		Summary:  req.Summary,
		Source:   req.Source,
		URL:      req.URL,
	}
	if req.PublishedAt != nil {
		item.PublishedAt = *req.PublishedAt
	}

	if err := h.newsService.Add(item); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// List returns news items, newest first
// GET /v1/news?symbol=&limit=
func (h *NewsHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	items, err := h.newsService.List(c.Query("symbol"), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: items, Total: len(items)})
}
