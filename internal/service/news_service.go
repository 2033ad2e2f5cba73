package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/repository/file"
)

// NewsService stores and queries news items per symbol
type NewsService struct {
	repo   *file.NewsRepository
	logger *zap.Logger
}

// NewNewsService creates a new news service
func NewNewsService(repo *file.NewsRepository, logger *zap.Logger) *NewsService {
	return &NewsService{repo: repo, logger: logger}
}

// Add validates and stores a news item
func (s *NewsService) Add(item *domain.NewsItem) error {
	var ve domain.ValidationErrors
	if strings.TrimSpace(item.Headline) == "" {
		ve.Add("headline", "headline is required")
	}
	if strings.TrimSpace(item.Symbol) == "" {
		ve.Add("symbol", "symbol is required")
	}
	if ve.HasErrors() {
		return ve
	}
	return s.repo.Add(item)
}

// List returns news, newest first, optionally filtered by symbol
func (s *NewsService) List(symbol string, limit int) ([]domain.NewsItem, error) {
	return s.repo.List(symbol, limit)
}

// HeadlineContext renders recent headlines for the chat system prompt
func (s *NewsService) HeadlineContext(symbols []string, perSymbol int) string {
	var sb strings.Builder
	for _, symbol := range symbols {
		items, err := s.repo.List(symbol, perSymbol)
		if err != nil || len(items) == 0 {
			continue
		}
		for _, it := range items {
			sb.WriteString(strings.ToUpper(symbol))
			sb.WriteString(" (")
			sb.WriteString(it.PublishedAt.Format("2006-01-02"))
			sb.WriteString("): ")
			sb.WriteString(it.Headline)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
