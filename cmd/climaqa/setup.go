package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/philippgille/chromem-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/observability/metrics"
	"github.com/sandevgo/climaqa/internal/providers/llm"
	"github.com/sandevgo/climaqa/internal/providers/rag"
	"github.com/sandevgo/climaqa/internal/service/chat"
	"github.com/sandevgo/climaqa/internal/service/command"
	"github.com/sandevgo/climaqa/internal/service/memory"
	"github.com/sandevgo/climaqa/internal/service/qa"
	"github.com/sandevgo/climaqa/internal/storage/redis"
	"github.com/sandevgo/climaqa/internal/storage/sqlite"
	"github.com/sandevgo/climaqa/internal/transport/httpapi"
	"github.com/sandevgo/climaqa/internal/transport/telegram"
	"github.com/sandevgo/climaqa/pkg/log"
	"github.com/sandevgo/climaqa/pkg/srv"
)

// app holds the wired pipeline shared by every subcommand.
type app struct {
	cfg      *config.AppConfig
	llmCfg   *config.LLMConfig
	chats    *chat.Service
	router   *command.Router
	registry *prometheus.Registry

	// services are started and shut down with the process, closers included.
	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)
	redisCfg := config.NewRedisConfig(ctx)

	a := &app{cfg: appCfg, llmCfg: llmCfg, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.services = append(a.services, srv.NewCleanup(db.Close))

	// 3. LLM providers
	answerModel, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	classifierModel, err := llm.NewProvider(ctx, llmCfg.ForClassifier())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize classifier provider")
	}

	// 4. Passage index
	index := a.initIndex(ctx, appCfg, llmCfg, ragCfg)

	// 5. Session locking
	locker := a.initLocker(ctx, redisCfg)

	// 6. Roles
	table, err := qa.LoadRoleTable(appCfg.GetRolesPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load role table")
	}
	roles := qa.NewRoleAdapter(table)

	// 7. Pipeline
	histories := sqlite.NewHistoryRepo(db)
	orchestrator := qa.NewOrchestrator(
		qa.Config{TopK: ragCfg.TopK, Threshold: ragCfg.Threshold, Timeout: appCfg.AskTimeout},
		qa.NewClassifier(classifierModel),
		qa.NewRetriever(index),
		roles,
		qa.NewGenerator(answerModel, appCfg.Persona),
		memory.NewStore(histories, appCfg.HistoryWindow),
		locker,
		metrics.NewPipelineMetrics(a.registry),
	)

	a.chats = chat.NewService(orchestrator, sqlite.NewUserRepo(db), sqlite.NewChatRepo(db), histories, appCfg.DefaultRole)
	a.router = command.NewRouter(a.chats, roles, llmCfg)

	return a
}

func (a *app) initIndex(ctx context.Context, appCfg *config.AppConfig, llmCfg *config.LLMConfig, ragCfg *config.RAGConfig) core.PassageIndex {
	logger := log.FromCtx(ctx)

	ef, err := rag.NewEmbeddingFunc(ragCfg, llmCfg.OpenAIAPIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedding function")
	}

	path := indexPath(appCfg, ragCfg)
	if ragCfg.WatchIndex {
		reloader, err := rag.NewReloader(path, ragCfg.Collection, ef)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("failed to open passage index, run 'climaqa index' first")
		}
		a.services = append(a.services, reloader)
		logger.Info().Int("passages", reloader.Count()).Msg("passage index loaded, watching for rebuilds")
		return reloader
	}

	index, err := rag.OpenIndex(path, ragCfg.Collection, ef)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("failed to open passage index, run 'climaqa index' first")
	}
	logger.Info().Int("passages", index.Count()).Msg("passage index loaded")
	return index
}

// initLocker returns nil for the in-process default.
func (a *app) initLocker(ctx context.Context, cfg *config.RedisConfig) core.SessionLocker {
	if !cfg.Enabled() {
		return nil
	}

	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to connect to redis")
	}
	a.services = append(a.services, srv.NewCleanup(client.Close))
	return redis.NewLocker(client, cfg.LockTTL)
}

// transports returns the long-running transports enabled by configuration.
func (a *app) transports(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	if a.cfg.EnableHTTP {
		services = append(services, httpapi.NewServer(config.NewHTTPConfig(ctx), a.chats, a.registry))
	}

	if a.cfg.EnableTelegram {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.chats, a.router)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if len(services) == 0 {
		logger.Warn().Msg("no transport enabled, set CLIMAQA_ENABLE_HTTP or CLIMAQA_ENABLE_TELEGRAM")
	}
	return services
}

// close shuts down every service in reverse order.
func (a *app) close(ctx context.Context) {
	for i := len(a.services) - 1; i >= 0; i-- {
		if err := a.services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", a.services[i])
		}
	}
}

func indexPath(appCfg *config.AppConfig, ragCfg *config.RAGConfig) string {
	if ragCfg.IndexPath != "" {
		return ragCfg.IndexPath
	}
	return appCfg.GetIndexPath()
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := config.EnvPath(runtimePath)

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

// newEmbeddingFunc is shared by the index build command.
func newEmbeddingFunc(ctx context.Context) (chromem.EmbeddingFunc, *config.AppConfig, *config.RAGConfig) {
	logger := log.FromCtx(ctx)
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)

	ef, err := rag.NewEmbeddingFunc(ragCfg, llmCfg.OpenAIAPIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedding function")
	}
	return ef, appCfg, ragCfg
}
