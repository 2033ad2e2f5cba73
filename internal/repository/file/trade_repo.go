package file

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/finsight/internal/domain"
)

// TradeRepository persists the trade log in trades.json
type TradeRepository struct {
	*store
}

// NewTradeRepository creates a trade repository rooted at dataDir
func NewTradeRepository(dataDir string) *TradeRepository {
	return &TradeRepository{store: newStore(filepath.Join(dataDir, "trades.json"))}
}

// TradeFilter narrows List results. Zero values match everything.
type TradeFilter struct {
	PortfolioID uuid.UUID
	Symbol      string
	Side        string
}

// Append records a new trade
func (r *TradeRepository) Append(t *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var trades []domain.Trade
	if err := r.load(&trades); err != nil {
		return err
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now().UTC()
	if t.ExecutedAt.IsZero() {
		t.ExecutedAt = t.CreatedAt
	}
	t.Symbol = strings.ToUpper(t.Symbol)

	trades = append(trades, *t)
	return r.save(trades)
}

// List returns trades matching the filter, oldest first
func (r *TradeRepository) List(f TradeFilter) ([]domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trades []domain.Trade
	if err := r.load(&trades); err != nil {
		return nil, err
	}

	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if f.PortfolioID != uuid.Nil && t.PortfolioID != f.PortfolioID {
			continue
		}
		if f.Symbol != "" && !strings.EqualFold(t.Symbol, f.Symbol) {
			continue
		}
		if f.Side != "" && t.Side != f.Side {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExecutedAt.Before(out[j].ExecutedAt) })
	return out, nil
}
