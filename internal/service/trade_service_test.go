package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

func newTradeFixture(t *testing.T) (*TradeService, *PortfolioService) {
	t.Helper()
	dir := t.TempDir()
	prices := file.NewPriceRepository(dir)
	portfolios := NewPortfolioService(file.NewPortfolioRepository(dir), prices, zap.NewNop())
	trades := NewTradeService(file.NewTradeRepository(dir), portfolios, zap.NewNop())
	return trades, portfolios
}

func TestTradeRecord(t *testing.T) {
	trades, portfolios := newTradeFixture(t)

	p := &domain.Portfolio{Name: "Core"}
	require.NoError(t, portfolios.Create(p))

	err := trades.Record(&domain.Trade{
		PortfolioID: p.ID,
		Symbol:      "aapl",
		Side:        domain.TradeSideBuy,
		Quantity:    dec("10"),
		Price:       dec("100"),
	})
	require.NoError(t, err)

	got, err := portfolios.Get(p.ID)
	require.NoError(t, err)
	require.Len(t, got.Positions, 1)
	assert.Equal(t, "AAPL", got.Positions[0].Symbol)

	logged, err := trades.List(file.TradeFilter{PortfolioID: p.ID})
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "AAPL", logged[0].Symbol)
	assert.NotZero(t, logged[0].ID)
	assert.False(t, logged[0].ExecutedAt.IsZero())
}

func TestTradeRecordInvalidNotLogged(t *testing.T) {
	trades, portfolios := newTradeFixture(t)

	p := &domain.Portfolio{Name: "Core"}
	require.NoError(t, portfolios.Create(p))

	err := trades.Record(&domain.Trade{
		PortfolioID: p.ID,
		Symbol:      "AAPL",
		Side:        domain.TradeSideSell,
		Quantity:    dec("5"),
		Price:       dec("100"),
	})
	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)

	// the rejected sell must not land in the trade log
	logged, err := trades.List(file.TradeFilter{PortfolioID: p.ID})
	require.NoError(t, err)
	assert.Empty(t, logged)
}
