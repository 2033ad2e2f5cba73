package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

// PortfolioService manages portfolios and prices them against stored history
type PortfolioService struct {
	repo   *file.PortfolioRepository
	prices *file.PriceRepository
	logger *zap.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(repo *file.PortfolioRepository, prices *file.PriceRepository, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{repo: repo, prices: prices, logger: logger}
}

// List returns all portfolios
func (s *PortfolioService) List() ([]domain.Portfolio, error) {
	return s.repo.List()
}

// Get returns a single portfolio
func (s *PortfolioService) Get(id uuid.UUID) (*domain.Portfolio, error) {
	return s.repo.Get(id)
}

// Create validates and stores a new portfolio
func (s *PortfolioService) Create(p *domain.Portfolio) error {
	if p.Currency == "" {
		p.Currency = "USD"
	}
	for i := range p.Positions {
		p.Positions[i].Symbol = strings.ToUpper(p.Positions[i].Symbol)
	}
	return s.repo.Create(p)
}

// Update replaces an existing portfolio
func (s *PortfolioService) Update(p *domain.Portfolio) error {
	for i := range p.Positions {
		p.Positions[i].Symbol = strings.ToUpper(p.Positions[i].Symbol)
	}
	return s.repo.Update(p)
}

// Delete removes a portfolio
func (s *PortfolioService) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}

// Valuation prices every position against its latest stored close. Positions
// without price data are valued at cost so a missing CSV degrades the total
// instead of failing the whole request.
func (s *PortfolioService) Valuation(id uuid.UUID) (*domain.PortfolioValuation, error) {
	p, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	out := &domain.PortfolioValuation{
		PortfolioID: p.ID,
		Name:        p.Name,
		Currency:    p.Currency,
		Positions:   make([]domain.PositionValuation, 0, len(p.Positions)),
	}

	for _, pos := range p.Positions {
		pv := domain.PositionValuation{Position: pos}
		pv.CostBasis = pos.Quantity.Mul(pos.AvgCost)

		if bar, err := s.prices.Latest(pos.Symbol); err == nil {
			pv.LastPrice = bar.Close
			asOf := bar.Date
			pv.PriceAsOf = &asOf
			pv.MarketValue = pos.Quantity.Mul(bar.Close)
		} else {
			s.logger.Debug("no price data, valuing at cost", zap.String("symbol", pos.Symbol))
			pv.LastPrice = pos.AvgCost
			pv.MarketValue = pv.CostBasis
		}
		pv.UnrealizedPnL = pv.MarketValue.Sub(pv.CostBasis)

		out.Positions = append(out.Positions, pv)
		out.MarketValue = out.MarketValue.Add(pv.MarketValue)
		out.CostBasis = out.CostBasis.Add(pv.CostBasis)
	}
	out.UnrealizedPnL = out.MarketValue.Sub(out.CostBasis)
	return out, nil
}

// ApplyTrade folds an executed trade into the portfolio's positions: buys
// average into the cost basis, sells reduce quantity and drop the position
// when it reaches zero.
func (s *PortfolioService) ApplyTrade(t *domain.Trade) error {
	var ve domain.ValidationErrors
	if !t.Quantity.IsPositive() {
		ve.Add("quantity", "quantity must be greater than zero")
	}
	if !t.Price.IsPositive() {
		ve.Add("price", "price must be greater than zero")
	}
	if len(ve) > 0 {
		return ve
	}

	p, err := s.repo.Get(t.PortfolioID)
	if err != nil {
		return err
	}

	symbol := strings.ToUpper(t.Symbol)
	idx := -1
	for i := range p.Positions {
		if p.Positions[i].Symbol == symbol {
			idx = i
			break
		}
	}

	switch t.Side {
	case domain.TradeSideBuy:
		if idx == -1 {
			p.Positions = append(p.Positions, domain.Position{
				Symbol:   symbol,
				Quantity: t.Quantity,
				AvgCost:  t.Price,
			})
			break
		}
		pos := &p.Positions[idx]
		oldCost := pos.Quantity.Mul(pos.AvgCost)
		newCost := t.Quantity.Mul(t.Price)
		pos.Quantity = pos.Quantity.Add(t.Quantity)
		pos.AvgCost = oldCost.Add(newCost).Div(pos.Quantity)

	case domain.TradeSideSell:
		if idx == -1 {
			var ve domain.ValidationErrors
			ve.Add("symbol", "cannot sell a symbol not held in the portfolio")
			return ve
		}
		pos := &p.Positions[idx]
		if t.Quantity.GreaterThan(pos.Quantity) {
			var ve domain.ValidationErrors
			ve.Add("quantity", "cannot sell more than the held quantity")
			return ve
		}
		pos.Quantity = pos.Quantity.Sub(t.Quantity)
		if pos.Quantity.Equal(decimal.Zero) {
			p.Positions = append(p.Positions[:idx], p.Positions[idx+1:]...)
		}

	default:
		var ve domain.ValidationErrors
		ve.Add("side", "side must be buy or sell")
		return ve
	}

	return s.repo.Update(p)
}
