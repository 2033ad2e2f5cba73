package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	logger           *zap.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService *service.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// PositionRequest represents one position in a portfolio request
type PositionRequest struct {
	Symbol   string          `json:"symbol" binding:"required,symbol"`
	Quantity decimal.Decimal `json:"quantity" binding:"required,positive"`
	AvgCost  decimal.Decimal `json:"avg_cost" binding:"required,positive"`
}

// PortfolioRequest represents a portfolio create or update request
type PortfolioRequest struct {
	Name      string            `json:"name" binding:"required"`
	Currency  string            `json:"currency"`
	Positions []PositionRequest `json:"positions" binding:"dive"`
}

func (r PortfolioRequest) toDomain() *domain.Portfolio {
	p := &domain.Portfolio{
		Name:     r.Name,
		Currency: r.Currency,
	}
	for _, pos := range r.Positions {
		p.Positions = append(p.Positions, domain.Position{
			Symbol:   pos.Symbol,
			Quantity: pos.Quantity,
			AvgCost:  pos.AvgCost,
		})
	}
	return p
}

// List lists all portfolios
// GET /v1/portfolios
func (h *PortfolioHandler) List(c *gin.Context) {
	portfolios, err := h.portfolioService.List()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: portfolios, Total: len(portfolios)})
}

// Get retrieves a portfolio by ID
// GET /v1/portfolios/:id
func (h *PortfolioHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.portfolioService.Get(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create creates a new portfolio
// POST /v1/portfolios
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req PortfolioRequest
	if !bindJSON(c, &req) {
		return
	}

	p := req.toDomain()
	if err := h.portfolioService.Create(p); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update replaces a portfolio
// PUT /v1/portfolios/:id
func (h *PortfolioHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PortfolioRequest
	if !bindJSON(c, &req) {
		return
	}

	p := req.toDomain()
	p.ID = id
	if err := h.portfolioService.Update(p); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete removes a portfolio
// DELETE /v1/portfolios/:id
func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.portfolioService.Delete(id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Valuation prices a portfolio against the latest stored closes
// GET /v1/portfolios/:id/valuation
func (h *PortfolioHandler) Valuation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	val, err := h.portfolioService.Valuation(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, val)
}
