package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

func newPortfolioFixture(t *testing.T) (*PortfolioService, *file.PriceRepository) {
	t.Helper()
	dir := t.TempDir()
	prices := file.NewPriceRepository(dir)
	svc := NewPortfolioService(file.NewPortfolioRepository(dir), prices, zap.NewNop())
	return svc, prices
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPortfolioCreateDefaults(t *testing.T) {
	svc, _ := newPortfolioFixture(t)

	p := &domain.Portfolio{
		Name: "Core",
		Positions: []domain.Position{
			{Symbol: "aapl", Quantity: dec("10"), AvgCost: dec("100")},
		},
	}
	require.NoError(t, svc.Create(p))

	got, err := svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "AAPL", got.Positions[0].Symbol)
}

func TestApplyTradeBuy(t *testing.T) {
	svc, _ := newPortfolioFixture(t)

	p := &domain.Portfolio{
		Name: "Core",
		Positions: []domain.Position{
			{Symbol: "AAPL", Quantity: dec("10"), AvgCost: dec("100")},
		},
	}
	require.NoError(t, svc.Create(p))

	t.Run("Averages Cost Basis", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "aapl",
			Side:        domain.TradeSideBuy,
			Quantity:    dec("10"),
			Price:       dec("200"),
		})
		require.NoError(t, err)

		got, err := svc.Get(p.ID)
		require.NoError(t, err)
		require.Len(t, got.Positions, 1)
		assert.True(t, got.Positions[0].Quantity.Equal(dec("20")),
			"quantity = %s", got.Positions[0].Quantity)
		assert.True(t, got.Positions[0].AvgCost.Equal(dec("150")),
			"avg cost = %s", got.Positions[0].AvgCost)
	})

	t.Run("Opens New Position", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "msft",
			Side:        domain.TradeSideBuy,
			Quantity:    dec("5"),
			Price:       dec("300"),
		})
		require.NoError(t, err)

		got, err := svc.Get(p.ID)
		require.NoError(t, err)
		require.Len(t, got.Positions, 2)
		assert.Equal(t, "MSFT", got.Positions[1].Symbol)
		assert.True(t, got.Positions[1].AvgCost.Equal(dec("300")))
	})
}

func TestApplyTradeSell(t *testing.T) {
	svc, _ := newPortfolioFixture(t)

	p := &domain.Portfolio{
		Name: "Core",
		Positions: []domain.Position{
			{Symbol: "AAPL", Quantity: dec("10"), AvgCost: dec("100")},
		},
	}
	require.NoError(t, svc.Create(p))

	t.Run("Partial Sell Keeps Cost Basis", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "AAPL",
			Side:        domain.TradeSideSell,
			Quantity:    dec("4"),
			Price:       dec("180"),
		})
		require.NoError(t, err)

		got, err := svc.Get(p.ID)
		require.NoError(t, err)
		require.Len(t, got.Positions, 1)
		assert.True(t, got.Positions[0].Quantity.Equal(dec("6")))
		assert.True(t, got.Positions[0].AvgCost.Equal(dec("100")))
	})

	t.Run("Oversell Rejected", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "AAPL",
			Side:        domain.TradeSideSell,
			Quantity:    dec("100"),
			Price:       dec("180"),
		})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)
	})

	t.Run("Unheld Symbol Rejected", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "TSLA",
			Side:        domain.TradeSideSell,
			Quantity:    dec("1"),
			Price:       dec("100"),
		})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)
	})

	t.Run("Full Sell Drops Position", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "AAPL",
			Side:        domain.TradeSideSell,
			Quantity:    dec("6"),
			Price:       dec("180"),
		})
		require.NoError(t, err)

		got, err := svc.Get(p.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Positions)
	})
}

func TestApplyTradeNonPositiveRejected(t *testing.T) {
	svc, _ := newPortfolioFixture(t)

	p := &domain.Portfolio{
		Name: "Core",
		Positions: []domain.Position{
			{Symbol: "AAPL", Quantity: dec("10"), AvgCost: dec("100")},
		},
	}
	require.NoError(t, svc.Create(p))

	t.Run("Negative Sell Rejected", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "AAPL",
			Side:        domain.TradeSideSell,
			Quantity:    dec("-5"),
			Price:       dec("180"),
		})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)

		got, err := svc.Get(p.ID)
		require.NoError(t, err)
		require.Len(t, got.Positions, 1)
		assert.True(t, got.Positions[0].Quantity.Equal(dec("10")))
	})

	t.Run("Cancelling Buy Rejected", func(t *testing.T) {
		var err error
		require.NotPanics(t, func() {
			err = svc.ApplyTrade(&domain.Trade{
				PortfolioID: p.ID,
				Symbol:      "AAPL",
				Side:        domain.TradeSideBuy,
				Quantity:    dec("-10"),
				Price:       dec("100"),
			})
		})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)
	})

	t.Run("Zero Price Rejected", func(t *testing.T) {
		err := svc.ApplyTrade(&domain.Trade{
			PortfolioID: p.ID,
			Symbol:      "AAPL",
			Side:        domain.TradeSideBuy,
			Quantity:    dec("1"),
			Price:       dec("0"),
		})
		var ve domain.ValidationErrors
		require.ErrorAs(t, err, &ve)
	})
}

func TestApplyTradeUnknownSide(t *testing.T) {
	svc, _ := newPortfolioFixture(t)

	p := &domain.Portfolio{Name: "Core"}
	require.NoError(t, svc.Create(p))

	err := svc.ApplyTrade(&domain.Trade{
		PortfolioID: p.ID,
		Symbol:      "AAPL",
		Side:        "short",
		Quantity:    dec("1"),
		Price:       dec("100"),
	})
	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)
}

func TestValuation(t *testing.T) {
	svc, prices := newPortfolioFixture(t)

	p := &domain.Portfolio{
		Name: "Core",
		Positions: []domain.Position{
			{Symbol: "AAPL", Quantity: dec("10"), AvgCost: dec("100")},
			{Symbol: "MSFT", Quantity: dec("2"), AvgCost: dec("300")},
		},
	}
	require.NoError(t, svc.Create(p))

	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, prices.Upsert("AAPL", []domain.PriceBar{
		{Date: asOf, Open: dec("108"), High: dec("112"), Low: dec("107"), Close: dec("110"), Volume: 1000},
	}))

	val, err := svc.Valuation(p.ID)
	require.NoError(t, err)
	require.Len(t, val.Positions, 2)

	aapl := val.Positions[0]
	assert.True(t, aapl.MarketValue.Equal(dec("1100")), "market value = %s", aapl.MarketValue)
	assert.True(t, aapl.UnrealizedPnL.Equal(dec("100")))
	require.NotNil(t, aapl.PriceAsOf)
	assert.True(t, asOf.Equal(*aapl.PriceAsOf))

	// MSFT has no stored prices and is valued at cost
	msft := val.Positions[1]
	assert.True(t, msft.MarketValue.Equal(dec("600")))
	assert.True(t, msft.UnrealizedPnL.IsZero())
	assert.Nil(t, msft.PriceAsOf)

	assert.True(t, val.MarketValue.Equal(dec("1700")))
	assert.True(t, val.CostBasis.Equal(dec("1600")))
	assert.True(t, val.UnrealizedPnL.Equal(dec("100")))
}

func TestValuationNotFound(t *testing.T) {
	svc, _ := newPortfolioFixture(t)

	_, err := svc.Valuation(uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
