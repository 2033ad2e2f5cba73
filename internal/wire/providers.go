package wire

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/finsight/finsight/internal/api"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/service"
)

// ProviderSet is the main provider set that includes all application dependencies.
var ProviderSet = wire.NewSet(
	StorageSet,
	RepositorySet,
	ServiceSet,
	HandlerSet,
	ProvideLogger,
	ProvideRouter,
	ProvideApplication,
)

// Application holds all the dependencies needed to run the server.
type Application struct {
	Config   *config.Config
	Logger   *zap.Logger
	Router   *gin.Engine
	Handlers *api.Handlers
	Hub      *service.StreamHub

	hubCancel context.CancelFunc
}

// Start starts all background services.
func (a *Application) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.hubCancel = cancel
	go a.Hub.Run(ctx)
}

// Cleanup releases all resources.
func (a *Application) Cleanup() {
	if a.hubCancel != nil {
		a.hubCancel()
	}
}

// ProvideLogger creates a configured zap logger.
func ProvideLogger(cfg *config.Config) *zap.Logger {
	var zapConfig zap.Config
	if cfg.IsDevelopment() {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return logger
}

// ProvideRouter creates the Gin router with all routes configured.
func ProvideRouter(
	h *api.Handlers,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	return api.SetupRouter(h, cfg, logger)
}

// ProvideApplication creates the main Application struct with all dependencies.
func ProvideApplication(
	cfg *config.Config,
	logger *zap.Logger,
	router *gin.Engine,
	handlers *api.Handlers,
	hub *service.StreamHub,
) *Application {
	return &Application{
		Config:   cfg,
		Logger:   logger,
		Router:   router,
		Handlers: handlers,
		Hub:      hub,
	}
}
