package wire

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/repository/file"
	"github.com/finsight/finsight/internal/service"
)

// ServiceSet provides all service instances.
var ServiceSet = wire.NewSet(
	ProvideTokenizerService,
	ProvideLLMService,
	ProvideSkillService,
	ProvidePortfolioService,
	ProvideTradeService,
	ProvideMarketService,
	ProvideWatchlistService,
	ProvideNewsService,
	ProvideStreamHub,
	ProvideChatService,
)

// ProvideTokenizerService creates a new TokenizerService.
func ProvideTokenizerService() *service.TokenizerService {
	return service.NewTokenizerService()
}

// ProvideLLMService creates the multi-provider LLM service.
func ProvideLLMService(
	logger *zap.Logger,
	cfg *config.Config,
	tokenizer *service.TokenizerService,
) service.LLMService {
	return service.NewLLMService(logger, cfg.LLM, tokenizer)
}

// ProvideSkillService creates a new SkillService.
func ProvideSkillService(dir DataDir, logger *zap.Logger) *service.SkillService {
	return service.NewSkillService(string(dir), logger)
}

// ProvidePortfolioService creates a new PortfolioService.
func ProvidePortfolioService(
	repo *file.PortfolioRepository,
	prices *file.PriceRepository,
	logger *zap.Logger,
) *service.PortfolioService {
	return service.NewPortfolioService(repo, prices, logger)
}

// ProvideTradeService creates a new TradeService.
func ProvideTradeService(
	repo *file.TradeRepository,
	portfolios *service.PortfolioService,
	logger *zap.Logger,
) *service.TradeService {
	return service.NewTradeService(repo, portfolios, logger)
}

// ProvideMarketService creates a new MarketService.
func ProvideMarketService(prices *file.PriceRepository, logger *zap.Logger) *service.MarketService {
	return service.NewMarketService(prices, logger)
}

// ProvideWatchlistService creates a new WatchlistService.
func ProvideWatchlistService(
	repo *file.WatchlistRepository,
	prices *file.PriceRepository,
	logger *zap.Logger,
) *service.WatchlistService {
	return service.NewWatchlistService(repo, prices, logger)
}

// ProvideNewsService creates a new NewsService.
func ProvideNewsService(repo *file.NewsRepository, logger *zap.Logger) *service.NewsService {
	return service.NewNewsService(repo, logger)
}

// ProvideStreamHub creates the WebSocket stream hub.
func ProvideStreamHub(logger *zap.Logger) *service.StreamHub {
	return service.NewStreamHub(logger)
}

// ProvideChatService creates the chat service.
func ProvideChatService(
	logger *zap.Logger,
	cfg *config.Config,
	llm service.LLMService,
	tokenizer *service.TokenizerService,
	skills *service.SkillService,
	portfolios *service.PortfolioService,
	market *service.MarketService,
	news *service.NewsService,
	sessions *file.SessionRepository,
	hub *service.StreamHub,
) *service.ChatService {
	return service.NewChatService(logger, cfg.LLM, llm, tokenizer, skills, portfolios, market, news, sessions, hub)
}
