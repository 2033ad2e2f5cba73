package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade side values
const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// Portfolio is a named collection of positions
type Portfolio struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Currency  string     `json:"currency"`
	Positions []Position `json:"positions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Position is a holding within a portfolio. Quantity and cost are decimals so
// fractional shares and cost bases survive round-tripping through JSON.
type Position struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

// PositionValuation is a position priced against the latest known close
type PositionValuation struct {
	Position
	LastPrice     decimal.Decimal `json:"last_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	PriceAsOf     *time.Time      `json:"price_as_of,omitempty"`
}

// PortfolioValuation is a fully priced portfolio
type PortfolioValuation struct {
	PortfolioID   uuid.UUID           `json:"portfolio_id"`
	Name          string              `json:"name"`
	Currency      string              `json:"currency"`
	Positions     []PositionValuation `json:"positions"`
	MarketValue   decimal.Decimal     `json:"market_value"`
	CostBasis     decimal.Decimal     `json:"cost_basis"`
	UnrealizedPnL decimal.Decimal     `json:"unrealized_pnl"`
}

// Watchlist is a named list of symbols being tracked
type Watchlist struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Symbols   []string  `json:"symbols"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchlistQuote is a watchlist symbol enriched with its latest close
type WatchlistQuote struct {
	Symbol    string           `json:"symbol"`
	LastPrice *decimal.Decimal `json:"last_price,omitempty"`
	AsOf      *time.Time       `json:"as_of,omitempty"`
}

// Trade is one executed buy or sell
type Trade struct {
	ID          uuid.UUID       `json:"id"`
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ExecutedAt  time.Time       `json:"executed_at"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PriceBar is one OHLCV candle
type PriceBar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// PriceStats summarizes a price history window
type PriceStats struct {
	Symbol       string          `json:"symbol"`
	Bars         int             `json:"bars"`
	PeriodReturn decimal.Decimal `json:"period_return"`
	High         decimal.Decimal `json:"high"`
	Low          decimal.Decimal `json:"low"`
	SMA          decimal.Decimal `json:"sma"`
	SMAWindow    int             `json:"sma_window"`
}

// NewsItem is one stored news article reference
type NewsItem struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResearchNote is a markdown analysis document
type ResearchNote struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Symbols   []string  `json:"symbols,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chat message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn of a chat session
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSession is a persisted conversation
type ChatSession struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Skill is a markdown prompt pack injected into the system prompt
type Skill struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
