// Package main runs the pipeline worker: it consumes River jobs for contact
// enrichment, relevance scoring, seating optimization and introduction
// generation, and serves Prometheus metrics.
//
// Environment variables:
//   - DATABASE_URL: PostgreSQL connection string (required)
//   - COMPLETION_PROVIDER: "openai" or "gemini" (default: openai)
//   - OPENAI_API_KEY / GEMINI_API_KEY: key for the selected provider
//   - PIPELINE_MAX_WORKERS: concurrent River workers (default: 4)
//   - METRICS_ADDR: metrics listen address (default: :9090)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"golang.org/x/time/rate"

	"github.com/guesthub/hub/internal/ai"
	"github.com/guesthub/hub/internal/config"
	"github.com/guesthub/hub/internal/jobs"
	"github.com/guesthub/hub/internal/llm"
	"github.com/guesthub/hub/internal/observability"
	"github.com/guesthub/hub/internal/repository"
	"github.com/guesthub/hub/internal/service"
	"github.com/guesthub/hub/pkg/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create completion client: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewPipelineMetrics(registry)

	jobsRepo := repository.NewJobsRepository(db)
	contactsRepo := repository.NewContactsRepository(db)
	scoresRepo := repository.NewScoresRepository(db)
	seatingRepo := repository.NewSeatingRepository(db)
	objectives := service.NewCachingObjectivesRepository(
		repository.NewObjectivesRepository(db),
		cfg.ObjectivesCacheSize,
		time.Duration(cfg.ObjectivesCacheTTLSeconds)*time.Second,
	)

	enrichmentSvc := service.NewEnrichmentService(jobsRepo, contactsRepo,
		ai.NewLLMEnrichmentProvider(completer), metrics)
	scoringSvc := service.NewScoringService(jobsRepo, contactsRepo, objectives, scoresRepo,
		ai.NewLLMScoringProvider(completer), metrics)
	seatingSvc := service.NewSeatingService(jobsRepo, scoresRepo, seatingRepo,
		ai.NewLLMSeatingProvider(completer), ai.NewLLMIntroductionsProvider(completer), metrics)

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewEnrichmentWorker(enrichmentSvc))
	river.AddWorker(workers, jobs.NewScoringWorker(scoringSvc))
	river.AddWorker(workers, jobs.NewSeatingWorker(seatingSvc))
	river.AddWorker(workers, jobs.NewIntroductionsWorker(seatingSvc))

	riverClient, err := river.NewClient(riverpgxv5.New(db), &river.Config{
		Queues: map[string]river.QueueConfig{
			cfg.PipelineQueue: {MaxWorkers: cfg.PipelineMaxWorkers},
		},
		Workers:      workers,
		ErrorHandler: &jobs.ErrorHandler{},
		Logger:       slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("create river client: %w", err)
	}

	metricsSrv := &http.Server{
		Addr:    getEnvDefault("METRICS_ADDR", ":9090"),
		Handler: observability.Handler(registry),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	slog.Info("pipeline worker starting",
		"queue", cfg.PipelineQueue,
		"max_workers", cfg.PipelineMaxWorkers,
		"provider", cfg.CompletionProvider,
	)

	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("start river: %w", err)
	}

	<-ctx.Done()
	slog.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := riverClient.Stop(stopCtx); err != nil {
		slog.Error("river stop failed", "error", err)
	}
	if err := metricsSrv.Shutdown(stopCtx); err != nil {
		slog.Error("metrics server shutdown failed", "error", err)
	}
	return nil
}

// newCompleter builds the configured completion client wrapped with the
// global rate limiter.
func newCompleter(ctx context.Context, cfg *config.Config) (llm.Completer, error) {
	pricing := llm.Pricing{
		PromptUSDPer1M:     cfg.PromptTokenPriceUSD,
		CompletionUSDPer1M: cfg.CompletionTokenPriceUSD,
	}

	var inner llm.Completer
	switch cfg.CompletionProvider {
	case config.ProviderOpenAI:
		inner = llm.NewOpenAIClient(cfg.OpenAIAPIKey,
			llm.WithOpenAIModel(cfg.CompletionModel),
			llm.WithOpenAIMaxTokens(cfg.CompletionMaxTokens),
			llm.WithOpenAIPricing(pricing),
		)
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey,
			llm.WithGeminiModel(cfg.CompletionModel),
			llm.WithGeminiMaxTokens(cfg.CompletionMaxTokens),
			llm.WithGeminiPricing(pricing),
		)
		if err != nil {
			return nil, err
		}
		inner = client
	default:
		return nil, fmt.Errorf("unsupported COMPLETION_PROVIDER %q", cfg.CompletionProvider)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.CompletionRateLimit), 1)
	return llm.NewRateLimitedCompleter(inner, limiter), nil
}

func getEnvDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
