package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
	"github.com/finsight/finsight/internal/service"
)

// TradeHandler handles trade-related HTTP requests
type TradeHandler struct {
	tradeService *service.TradeService
	logger       *zap.Logger
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(tradeService *service.TradeService, logger *zap.Logger) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		logger:       logger,
	}
}

// TradeRequest represents a trade record request
type TradeRequest struct {
	PortfolioID uuid.UUID       `json:"portfolio_id" binding:"required"`
	Symbol      string          `json:"symbol" binding:"required,symbol"`
	Side        string          `json:"side" binding:"required,side"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,positive"`
	Price       decimal.Decimal `json:"price" binding:"required,positive"`
	ExecutedAt  *time.Time      `json:"executed_at,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// Record records a trade and applies it to the owning portfolio
// POST /v1/trades
func (h *TradeHandler) Record(c *gin.Context) {
	var req TradeRequest
	if !bindJSON(c, &req) {
		return
	}

	t := &domain.Trade{
		PortfolioID: req.PortfolioID,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Note:        req.Note,
	}
	if req.ExecutedAt != nil {
		t.ExecutedAt = *req.ExecutedAt
	}

	if err := h.tradeService.Record(t); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// List returns trades matching the query filters
// GET /v1/trades?portfolio_id=&symbol=&side=
func (h *TradeHandler) List(c *gin.Context) {
	var filter file.TradeFilter

	if raw := c.Query("portfolio_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_portfolio_id",
				Message: "Invalid portfolio_id format",
			})
			return
		}
		filter.PortfolioID = id
	}
	filter.Symbol = c.Query("symbol")
	filter.Side = c.Query("side")

	trades, err := h.tradeService.List(filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: trades, Total: len(trades)})
}
