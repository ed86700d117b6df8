package main

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/mfenderov/hermes-discovery/internal/cache"
	"github.com/mfenderov/hermes-discovery/internal/config"
	"github.com/mfenderov/hermes-discovery/internal/db"
	"github.com/mfenderov/hermes-discovery/internal/feature"
	"github.com/mfenderov/hermes-discovery/internal/governor"
	"github.com/mfenderov/hermes-discovery/internal/handler"
	"github.com/mfenderov/hermes-discovery/internal/ingestion"
	"github.com/mfenderov/hermes-discovery/internal/llm"
	"github.com/mfenderov/hermes-discovery/internal/middleware"
	"github.com/mfenderov/hermes-discovery/internal/platform"
	"github.com/mfenderov/hermes-discovery/internal/router"
	"github.com/mfenderov/hermes-discovery/internal/search"
	"github.com/mfenderov/hermes-discovery/internal/session"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "hermes-discovery")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		middleware.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			middleware.Logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(opts)
	}

	handler.InitMetrics(pool)

	tokenGovernor := governor.NewTokenGovernor(cfg.LLMDailyTokenBudget, cfg.LLMPerRequestBudget, cfg.LLMFallbackThreshold)
	quotaGovernor := governor.NewQuotaGovernor(cfg.YouTubeDailyQuota, cfg.YouTubeDowngradeRatio)

	queryDigestCache, err := cache.NewQueryDigestCache(pool)
	if err != nil {
		middleware.Logger.Fatal().Err(err).Msg("failed to build query digest cache")
	}
	expander := llm.NewExpander(cfg.CohereAPIKey, queryDigestCache, tokenGovernor)

	crossInstance := platform.NewRedisChannelCache(cfg.RedisURL)
	apiKeys := splitAPIKeys(cfg.YouTubeAPIKeys)
	adapter, err := platform.NewYouTubeAdapter(apiKeys, quotaGovernor, crossInstance)
	if err != nil {
		middleware.Logger.Fatal().Err(err).Msg("failed to build YouTube adapter")
	}

	sessionRepo := session.NewRepo(pool)
	materializer, err := session.New(sessionRepo, time.Duration(cfg.SessionTTLMinutes)*time.Minute, cfg.SessionSlidingExpiry)
	if err != nil {
		middleware.Logger.Fatal().Err(err).Msg("failed to build session materializer")
	}
	sweeper := session.NewSweeper(materializer, 5*time.Minute)

	ingestionRepo := ingestion.NewRepo(pool)
	embeddingClient := ingestion.NewEmbeddingClient(cfg.CohereAPIKey, tokenGovernor)
	pipeline := ingestion.NewPipeline(ingestionRepo, embeddingClient)

	features := feature.NewRegistry(cfg)

	orchestrator := search.New(expander, adapter, materializer, pipeline, cfg.MaxResultsPerQuery)

	backgroundCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()
	go sweeper.Start(backgroundCtx)
	go pipeline.Start(backgroundCtx)

	handlers := &router.Handlers{
		Search: handler.NewSearchHandler(orchestrator),
		Admin:  handler.NewAdminHandler(tokenGovernor, quotaGovernor, queryDigestCache, materializer, features, adapter),
		Health: handler.NewHealthHandler(pool, rdb),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Hermes Discovery",
		ServerHeader: "hermes-discovery",
	})
	app.Use(handler.MetricsMiddleware())
	app.Get("/metrics", handler.MetricsHandler())

	router.Setup(app, handlers, cfg.CORSOrigins)

	middleware.Logger.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("hermes-discovery starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		middleware.Logger.Fatal().Err(err).Msg("server stopped")
	}
}

func splitAPIKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
