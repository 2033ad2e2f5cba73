package wire

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/api"
	"github.com/finsight/finsight/internal/api/handlers"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/repository/file"
	"github.com/finsight/finsight/internal/service"
)

// HandlerSet provides all HTTP handler instances.
var HandlerSet = wire.NewSet(
	ProvideHealthHandler,
	ProvideChatHandler,
	ProvideVizHandler,
	ProvidePortfolioHandler,
	ProvideWatchlistHandler,
	ProvideTradeHandler,
	ProvideMarketHandler,
	ProvideNewsHandler,
	ProvideNoteHandler,
	ProvideSkillHandler,
	ProvideSessionHandler,
	ProvideTokenHandler,
	ProvideStreamHandler,
	ProvideHandlers,
)

// ProvideHealthHandler creates a new HealthHandler.
func ProvideHealthHandler(cfg *config.Config, logger *zap.Logger) *handlers.HealthHandler {
	return handlers.NewHealthHandler(cfg.Data.Dir, logger)
}

// ProvideChatHandler creates a new ChatHandler.
func ProvideChatHandler(chat *service.ChatService, logger *zap.Logger) *handlers.ChatHandler {
	return handlers.NewChatHandler(chat, logger)
}

// ProvideVizHandler creates a new VizHandler.
func ProvideVizHandler(logger *zap.Logger) *handlers.VizHandler {
	return handlers.NewVizHandler(logger)
}

// ProvidePortfolioHandler creates a new PortfolioHandler.
func ProvidePortfolioHandler(svc *service.PortfolioService, logger *zap.Logger) *handlers.PortfolioHandler {
	return handlers.NewPortfolioHandler(svc, logger)
}

// ProvideWatchlistHandler creates a new WatchlistHandler.
func ProvideWatchlistHandler(svc *service.WatchlistService, logger *zap.Logger) *handlers.WatchlistHandler {
	return handlers.NewWatchlistHandler(svc, logger)
}

// ProvideTradeHandler creates a new TradeHandler.
func ProvideTradeHandler(svc *service.TradeService, logger *zap.Logger) *handlers.TradeHandler {
	return handlers.NewTradeHandler(svc, logger)
}

// ProvideMarketHandler creates a new MarketHandler.
func ProvideMarketHandler(svc *service.MarketService, logger *zap.Logger) *handlers.MarketHandler {
	return handlers.NewMarketHandler(svc, logger)
}

// ProvideNewsHandler creates a new NewsHandler.
func ProvideNewsHandler(svc *service.NewsService, logger *zap.Logger) *handlers.NewsHandler {
	return handlers.NewNewsHandler(svc, logger)
}

// ProvideNoteHandler creates a new NoteHandler.
func ProvideNoteHandler(repo *file.NoteRepository, logger *zap.Logger) *handlers.NoteHandler {
	return handlers.NewNoteHandler(repo, logger)
}

// ProvideSkillHandler creates a new SkillHandler.
func ProvideSkillHandler(svc *service.SkillService, logger *zap.Logger) *handlers.SkillHandler {
	return handlers.NewSkillHandler(svc, logger)
}

// ProvideSessionHandler creates a new SessionHandler.
func ProvideSessionHandler(repo *file.SessionRepository, logger *zap.Logger) *handlers.SessionHandler {
	return handlers.NewSessionHandler(repo, logger)
}

// ProvideTokenHandler creates a new TokenHandler.
func ProvideTokenHandler(
	llm service.LLMService,
	tokenizer *service.TokenizerService,
	logger *zap.Logger,
) *handlers.TokenHandler {
	return handlers.NewTokenHandler(llm, tokenizer, logger)
}

// ProvideStreamHandler creates a new StreamHandler.
func ProvideStreamHandler(hub *service.StreamHub, logger *zap.Logger) *handlers.StreamHandler {
	return handlers.NewStreamHandler(hub, logger)
}

// ProvideHandlers bundles all handlers for the router.
func ProvideHandlers(
	health *handlers.HealthHandler,
	chat *handlers.ChatHandler,
	viz *handlers.VizHandler,
	portfolio *handlers.PortfolioHandler,
	watchlist *handlers.WatchlistHandler,
	trade *handlers.TradeHandler,
	market *handlers.MarketHandler,
	news *handlers.NewsHandler,
	note *handlers.NoteHandler,
	skill *handlers.SkillHandler,
	session *handlers.SessionHandler,
	token *handlers.TokenHandler,
	stream *handlers.StreamHandler,
) *api.Handlers {
	return &api.Handlers{
		Health:    health,
		Chat:      chat,
		Viz:       viz,
		Portfolio: portfolio,
		Watchlist: watchlist,
		Trade:     trade,
		Market:    market,
		News:      news,
		Note:      note,
		Skill:     skill,
		Session:   session,
		Token:     token,
		Stream:    stream,
	}
}
