package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

func TestNormalizeSymbols(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		expected []string
	}{
		{
			name:     "Uppercases",
			in:       []string{"aapl", "msft"},
			expected: []string{"AAPL", "MSFT"},
		},
		{
			name:     "Dedupes Preserving Order",
			in:       []string{"msft", "AAPL", "Msft"},
			expected: []string{"MSFT", "AAPL"},
		},
		{
			name:     "Empty",
			in:       nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeSymbols(tt.in))
		})
	}
}

func TestWatchlistQuotes(t *testing.T) {
	dir := t.TempDir()
	prices := file.NewPriceRepository(dir)
	svc := NewWatchlistService(file.NewWatchlistRepository(dir), prices, zap.NewNop())

	asOf := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, prices.Upsert("AAPL", []domain.PriceBar{
		{Date: asOf, Open: dec("108"), High: dec("112"), Low: dec("107"), Close: dec("110"), Volume: 100},
	}))

	w := &domain.Watchlist{Name: "Tech", Symbols: []string{"aapl", "nope"}}
	require.NoError(t, svc.Create(w))

	got, err := svc.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "NOPE"}, got.Symbols)

	quotes, err := svc.Quotes(w.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	require.NotNil(t, quotes[0].LastPrice)
	assert.True(t, quotes[0].LastPrice.Equal(dec("110")))
	require.NotNil(t, quotes[0].AsOf)
	assert.True(t, asOf.Equal(*quotes[0].AsOf))

	// missing price data yields a quote without a price
	assert.Equal(t, "NOPE", quotes[1].Symbol)
	assert.Nil(t, quotes[1].LastPrice)
	assert.Nil(t, quotes[1].AsOf)
}
