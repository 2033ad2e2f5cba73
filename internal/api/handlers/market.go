package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/service"
)

// MarketHandler handles price history HTTP requests
type MarketHandler struct {
	marketService *service.MarketService
	logger        *zap.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService *service.MarketService, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		logger:        logger,
	}
}

// PriceBarRequest represents one imported OHLCV bar
type PriceBarRequest struct {
	Date   time.Time       `json:"date" binding:"required"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close" binding:"required"`
	Volume int64           `json:"volume"`
}

// ImportRequest represents a price import request
type ImportRequest struct {
	Bars []PriceBarRequest `json:"bars" binding:"required,dive"`
}

// Symbols lists all symbols with stored history
// GET /v1/prices
func (h *MarketHandler) Symbols(c *gin.Context) {
	symbols, err := h.marketService.Symbols()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: symbols, Total: len(symbols)})
}

// History returns bars for a symbol
// GET /v1/prices/:symbol?days=30
func (h *MarketHandler) History(c *gin.Context) {
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return
	}

	bars, err := h.marketService.History(c.Param("symbol"), days)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: bars, Total: len(bars)})
}

// Latest returns the most recent bar for a symbol
// GET /v1/prices/:symbol/latest
func (h *MarketHandler) Latest(c *gin.Context) {
	bar, err := h.marketService.Latest(c.Param("symbol"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, bar)
}

// Stats returns summary analytics for a symbol's recent window
// GET /v1/prices/:symbol/stats?days=30&sma=20
func (h *MarketHandler) Stats(c *gin.Context) {
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return
	}
	sma, ok := queryInt(c, "sma", 0)
	if !ok {
		return
	}

	stats, err := h.marketService.Stats(c.Param("symbol"), days, sma)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Import merges bars into a symbol's stored history
// POST /v1/prices/:symbol
func (h *MarketHandler) Import(c *gin.Context) {
	var req ImportRequest
	if !bindJSON(c, &req) {
		return
	}

	bars := make([]domain.PriceBar, 0, len(req.Bars))
	for _, b := range req.Bars {
		bars = append(bars, domain.PriceBar{
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	if err := h.marketService.Import(c.Param("symbol"), bars); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(bars)})
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_query",
			Message: name + " must be a non-negative integer",
		})
		return 0, false
	}
	return n, true
}
