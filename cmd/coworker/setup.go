package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/coworker/internal/config"
	"github.com/sandevgo/coworker/internal/providers/graph"
	"github.com/sandevgo/coworker/internal/providers/llm"
	"github.com/sandevgo/coworker/internal/service/assistant"
	"github.com/sandevgo/coworker/internal/service/chat"
	"github.com/sandevgo/coworker/internal/storage/sqlite"
	"github.com/sandevgo/coworker/internal/transport/httpapi"
	"github.com/sandevgo/coworker/internal/transport/telegram"
	"github.com/sandevgo/coworker/pkg/log"
	"github.com/sandevgo/coworker/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	serverCfg := config.NewServerConfig(ctx)
	geminiCfg := config.NewGeminiConfig(ctx)
	graphCfg := config.NewGraphConfig(ctx)

	// 2. Storage
	db, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	chatRepo := sqlite.NewChatRepo(db)
	factRepo := sqlite.NewFactRepo(db)

	// 3. Model provider
	provider, err := llm.NewProvider(ctx, geminiCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize model provider")
	}

	// 4. Microsoft Graph client
	graphClient := graph.NewClient(graphCfg)

	// 5. Core services
	chatSvc := chat.NewService(chatRepo, factRepo, provider, appCfg)
	assistantSvc := assistant.NewService(graphClient, provider)

	// 6. Transports
	handler := httpapi.NewHandler(chatSvc, assistantSvc, graphClient, chatRepo, factRepo)
	services = append(services, httpapi.NewServer(ctx, serverCfg, handler))

	if appCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, chatSvc)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
