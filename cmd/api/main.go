package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/launchpage-ai/launchpage/cmd/mainconfig"
	"github.com/launchpage-ai/launchpage/internal/api/router"
	appconfig "github.com/launchpage-ai/launchpage/internal/config"
	"github.com/launchpage-ai/launchpage/internal/events"
	"github.com/launchpage-ai/launchpage/internal/generation"
	"github.com/launchpage-ai/launchpage/internal/http/handlers"
	"github.com/launchpage-ai/launchpage/internal/observability/metrics"
	"github.com/launchpage-ai/launchpage/internal/sites"
	"github.com/launchpage-ai/launchpage/internal/webhook"
	"github.com/launchpage-ai/launchpage/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting launchpage API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
		"store_backend", cfg.StoreBackend,
	)

	ctx := context.Background()

	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	llmClient, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize generation client", "error", err)
		os.Exit(1)
	}
	generator := generation.NewService(llmClient, cfg.GenerationModel, int32(cfg.GenerationMaxTokens), logger)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	siteStore, err := buildSiteStore(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Error("failed to initialize site store", "error", err)
		os.Exit(1)
	}
	if siteStore == nil {
		logger.Warn("no site store configured; results are delivered inline only")
	}

	var processed *events.ProcessedStore
	if redisClient != nil {
		processed = events.NewProcessedStore(redisClient, 24*time.Hour)
	}

	verifier := webhook.NewVerifier(cfg.WebhookSecret)
	if cfg.WebhookSecret == "" {
		logger.Warn("webhook secret not configured; deliveries cannot be verified")
	}

	generateHandler := handlers.NewGenerateHandler(handlers.GenerateHandlerConfig{
		Generator:     generator,
		Store:         siteStore,
		Logger:        logger,
		PublicBaseURL: cfg.PublicBaseURL,
		Metrics:       pipelineMetrics,
	})
	voiceCfg := handlers.VoiceWebhookConfig{
		Verifier:         verifier,
		Generator:        generator,
		Store:            siteStore,
		Logger:           logger,
		RequireSignature: cfg.WebhookRequireSignature,
		PublicBaseURL:    cfg.PublicBaseURL,
		Metrics:          pipelineMetrics,
	}
	if processed != nil {
		voiceCfg.Processed = processed
	}
	voiceWebhook := handlers.NewVoiceWebhookHandler(voiceCfg)
	previewHandler := handlers.NewPreviewHandler(siteStore, logger)

	r := router.New(&router.Config{
		Logger:          logger,
		GenerateHandler: generateHandler,
		VoiceWebhook:    voiceWebhook,
		PreviewHandler:  previewHandler,
		MetricsHandler:  promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Generation holds the request open for up to GenerationTimeout, so
		// the write deadline must sit above it.
		WriteTimeout: cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildLLMClient returns nil without error when the provider's credential is
// absent: the server still boots and serves previews, and generation requests
// answer with a configuration error.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (generation.LLMClient, error) {
	switch cfg.LLMProvider {
	case "gemini":
		client, err := generation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GenerationModel)
		if err != nil {
			if errors.Is(err, generation.ErrMissingCredential) {
				logger.Warn("GEMINI_API_KEY not set; generation disabled")
				return nil, nil
			}
			return nil, err
		}
		return client, nil
	case "openai", "":
		client, err := generation.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.GenerationTimeout)
		if err != nil {
			if errors.Is(err, generation.ErrMissingCredential) {
				logger.Warn("OPENAI_API_KEY not set; generation disabled")
				return nil, nil
			}
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// buildSiteStore picks the persistence backend. "auto" prefers Redis, then
// Postgres, and falls back to inline-only delivery when neither is configured.
// DynamoDB must be selected explicitly.
func buildSiteStore(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) (sites.Store, error) {
	backend := cfg.StoreBackend
	if backend == "auto" {
		switch {
		case redisClient != nil:
			backend = "redis"
		case cfg.DatabaseURL != "":
			backend = "postgres"
		default:
			return nil, nil
		}
	}

	switch backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("STORE_BACKEND=redis requires REDIS_ADDR")
		}
		logger.Info("using redis site store", "addr", cfg.RedisAddr)
		return sites.NewRedisStore(redisClient, cfg.SiteTTL), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("using postgres site store")
		return sites.NewPostgresStore(pool, cfg.SiteTTL), nil
	case "dynamo":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		logger.Info("using dynamodb site store", "table", cfg.SitesTable)
		return sites.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.SitesTable, cfg.SiteTTL, logger), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}
