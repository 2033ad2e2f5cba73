package service

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

// WatchlistService manages watchlists with quote enrichment
type WatchlistService struct {
	repo   *file.WatchlistRepository
	prices *file.PriceRepository
	logger *zap.Logger
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(repo *file.WatchlistRepository, prices *file.PriceRepository, logger *zap.Logger) *WatchlistService {
	return &WatchlistService{repo: repo, prices: prices, logger: logger}
}

// List returns all watchlists
func (s *WatchlistService) List() ([]domain.Watchlist, error) {
	return s.repo.List()
}

// Get returns a single watchlist
func (s *WatchlistService) Get(id uuid.UUID) (*domain.Watchlist, error) {
	return s.repo.Get(id)
}

// Create validates and stores a new watchlist
func (s *WatchlistService) Create(w *domain.Watchlist) error {
	w.Symbols = normalizeSymbols(w.Symbols)
	return s.repo.Create(w)
}

// Update replaces an existing watchlist
func (s *WatchlistService) Update(w *domain.Watchlist) error {
	w.Symbols = normalizeSymbols(w.Symbols)
	return s.repo.Update(w)
}

// Delete removes a watchlist
func (s *WatchlistService) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}

// Quotes returns the watchlist's symbols with their latest closes. Symbols
// without price data come back with a nil price rather than an error.
func (s *WatchlistService) Quotes(id uuid.UUID) ([]domain.WatchlistQuote, error) {
	w, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.WatchlistQuote, 0, len(w.Symbols))
	for _, symbol := range w.Symbols {
		q := domain.WatchlistQuote{Symbol: symbol}
		if bar, err := s.prices.Latest(symbol); err == nil {
			price := bar.Close
			asOf := bar.Date
			q.LastPrice = &price
			q.AsOf = &asOf
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// normalizeSymbols upper-cases and de-duplicates while preserving order
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
