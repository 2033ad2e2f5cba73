package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/api/handlers"
	"github.com/finsight/finsight/internal/api/middleware"
	"github.com/finsight/finsight/internal/config"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Health    *handlers.HealthHandler
	Chat      *handlers.ChatHandler
	Viz       *handlers.VizHandler
	Portfolio *handlers.PortfolioHandler
	Watchlist *handlers.WatchlistHandler
	Trade     *handlers.TradeHandler
	Market    *handlers.MarketHandler
	News      *handlers.NewsHandler
	Note      *handlers.NoteHandler
	Skill     *handlers.SkillHandler
	Session   *handlers.SessionHandler
	Token     *handlers.TokenHandler
	Stream    *handlers.StreamHandler
}

// SetupRouter configures the Gin router with all routes and middleware
func SetupRouter(h *Handlers, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.ErrorHandler())

	corsOrigins := cfg.CORS.AllowedOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoints (no auth required)
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	// WebSocket endpoint for live chat events
	r.GET("/ws/chat", h.Stream.ServeWS)

	// API v1
	v1 := r.Group("/v1")
	v1.Use(middleware.TokenAuth(cfg.Auth.APIToken))
	{
		// Chat
		v1.POST("/chat", h.Chat.Chat)
		v1.POST("/chat/stream", h.Chat.ChatStream)

		// Visualization markup parsing
		v1.POST("/viz/parse", h.Viz.Parse)

		// Portfolios
		portfolios := v1.Group("/portfolios")
		{
			portfolios.GET("", h.Portfolio.List)
			portfolios.POST("", h.Portfolio.Create)
			portfolios.GET("/:id", h.Portfolio.Get)
			portfolios.PUT("/:id", h.Portfolio.Update)
			portfolios.DELETE("/:id", h.Portfolio.Delete)
			portfolios.GET("/:id/valuation", h.Portfolio.Valuation)
		}

		// Watchlists
		watchlists := v1.Group("/watchlists")
		{
			watchlists.GET("", h.Watchlist.List)
			watchlists.POST("", h.Watchlist.Create)
			watchlists.GET("/:id", h.Watchlist.Get)
			watchlists.PUT("/:id", h.Watchlist.Update)
			watchlists.DELETE("/:id", h.Watchlist.Delete)
			watchlists.GET("/:id/quotes", h.Watchlist.Quotes)
		}

		// Trades
		trades := v1.Group("/trades")
		{
			trades.GET("", h.Trade.List)
			trades.POST("", h.Trade.Record)
		}

		// Price history
		prices := v1.Group("/prices")
		{
			prices.GET("", h.Market.Symbols)
			prices.GET("/:symbol", h.Market.History)
			prices.POST("/:symbol", h.Market.Import)
			prices.GET("/:symbol/latest", h.Market.Latest)
			prices.GET("/:symbol/stats", h.Market.Stats)
		}

		// News
		news := v1.Group("/news")
		{
			news.GET("", h.News.List)
			news.POST("", h.News.Add)
		}

		// Research notes
		notes := v1.Group("/notes")
		{
			notes.GET("", h.Note.List)
			notes.POST("", h.Note.Create)
			notes.GET("/:id", h.Note.Get)
			notes.PUT("/:id", h.Note.Update)
			notes.DELETE("/:id", h.Note.Delete)
		}

		// Skill packs
		skills := v1.Group("/skills")
		{
			skills.GET("", h.Skill.List)
			skills.GET("/:name", h.Skill.Get)
		}

		// Chat sessions
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", h.Session.List)
			sessions.GET("/:id", h.Session.Get)
			sessions.DELETE("/:id", h.Session.Delete)
		}

		// Tokens and models
		v1.POST("/tokens/count", h.Token.Count)
		v1.GET("/models", h.Token.Models)
	}

	return r
}
