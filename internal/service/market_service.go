package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

// MarketService serves price history and derived analytics
type MarketService struct {
	prices *file.PriceRepository
	logger *zap.Logger
}

// NewMarketService creates a new market service
func NewMarketService(prices *file.PriceRepository, logger *zap.Logger) *MarketService {
	return &MarketService{prices: prices, logger: logger}
}

// Symbols returns all symbols with stored history
func (s *MarketService) Symbols() ([]string, error) {
	return s.prices.Symbols()
}

// History returns bars for a symbol, optionally limited to the window ending
// at the latest bar. days <= 0 returns the full history.
func (s *MarketService) History(symbol string, days int) ([]domain.PriceBar, error) {
	bars, err := s.prices.History(strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}
	if days > 0 && len(bars) > 0 {
		cutoff := bars[len(bars)-1].Date.AddDate(0, 0, -days)
		for i, b := range bars {
			if b.Date.After(cutoff) {
				return bars[i:], nil
			}
		}
		return nil, nil
	}
	return bars, nil
}

// Latest returns the most recent bar for a symbol
func (s *MarketService) Latest(symbol string) (*domain.PriceBar, error) {
	return s.prices.Latest(strings.ToUpper(symbol))
}

// Import merges bars into a symbol's stored history
func (s *MarketService) Import(symbol string, bars []domain.PriceBar) error {
	if len(bars) == 0 {
		var ve domain.ValidationErrors
		ve.Add("bars", "at least one price bar is required")
		return ve
	}
	return s.prices.Upsert(strings.ToUpper(symbol), bars)
}

// Stats computes summary analytics over a symbol's recent window: period
// return from first to last close, high/low, and a simple moving average of
// the closes over smaWindow bars (capped at the window size).
func (s *MarketService) Stats(symbol string, days, smaWindow int) (*domain.PriceStats, error) {
	bars, err := s.History(symbol, days)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, domain.ErrNoPriceData
	}
	if smaWindow <= 0 || smaWindow > len(bars) {
		smaWindow = len(bars)
	}

	stats := &domain.PriceStats{
		Symbol:    strings.ToUpper(symbol),
		Bars:      len(bars),
		High:      bars[0].High,
		Low:       bars[0].Low,
		SMAWindow: smaWindow,
	}

	for _, b := range bars {
		if b.High.GreaterThan(stats.High) {
			stats.High = b.High
		}
		if b.Low.LessThan(stats.Low) {
			stats.Low = b.Low
		}
	}

	first, last := bars[0].Close, bars[len(bars)-1].Close
	if !first.IsZero() {
		stats.PeriodReturn = last.Sub(first).Div(first)
	}

	sum := decimal.Zero
	for _, b := range bars[len(bars)-smaWindow:] {
		sum = sum.Add(b.Close)
	}
	stats.SMA = sum.Div(decimal.NewFromInt(int64(smaWindow)))

	return stats, nil
}

// ChartContext renders a compact text summary of recent prices for the chat
// system prompt.
func (s *MarketService) ChartContext(symbols []string, days int) string {
	var sb strings.Builder
	for _, symbol := range symbols {
		stats, err := s.Stats(symbol, days, 0)
		if err != nil {
			continue
		}
		latest, err := s.Latest(symbol)
		if err != nil {
			continue
		}
		sb.WriteString(strings.ToUpper(symbol))
		sb.WriteString(": close ")
		sb.WriteString(latest.Close.StringFixed(2))
		sb.WriteString(" (")
		sb.WriteString(latest.Date.Format("2006-01-02"))
		sb.WriteString("), ")
		sb.WriteString(formatDays(days))
		sb.WriteString(" return ")
		sb.WriteString(stats.PeriodReturn.Mul(decimal.NewFromInt(100)).StringFixed(2))
		sb.WriteString("%, range ")
		sb.WriteString(stats.Low.StringFixed(2))
		sb.WriteString("-")
		sb.WriteString(stats.High.StringFixed(2))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatDays(days int) string {
	if days <= 0 {
		return "all-time"
	}
	if days%365 == 0 {
		return strconv.Itoa(days/365) + "y"
	}
	return strconv.Itoa(days) + "d"
}
