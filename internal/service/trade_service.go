package service

import (
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

// TradeService records trades and rolls them up into portfolio positions
type TradeService struct {
	repo       *file.TradeRepository
	portfolios *PortfolioService
	logger     *zap.Logger
}

// NewTradeService creates a new trade service
func NewTradeService(repo *file.TradeRepository, portfolios *PortfolioService, logger *zap.Logger) *TradeService {
	return &TradeService{repo: repo, portfolios: portfolios, logger: logger}
}

// Record validates a trade, applies it to the owning portfolio, and appends
// it to the trade log. The position update runs first so an invalid trade
// (overselling, unknown symbol) never lands in the log.
func (s *TradeService) Record(t *domain.Trade) error {
	if err := s.portfolios.ApplyTrade(t); err != nil {
		return err
	}
	if err := s.repo.Append(t); err != nil {
		s.logger.Error("trade applied but not logged",
			zap.String("portfolio_id", t.PortfolioID.String()),
			zap.String("symbol", t.Symbol),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// List returns trades matching the filter
func (s *TradeService) List(f file.TradeFilter) ([]domain.Trade, error) {
	return s.repo.List(f)
}
