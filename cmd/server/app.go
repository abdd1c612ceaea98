package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/sift-api/internal/analysis"
	"github.com/phrazzld/sift-api/internal/config"
	"github.com/phrazzld/sift-api/internal/content"
	"github.com/phrazzld/sift-api/internal/platform/gemini"
	"github.com/phrazzld/sift-api/internal/platform/openai"
	"github.com/phrazzld/sift-api/internal/platform/rabbitmq"
	"github.com/phrazzld/sift-api/internal/platform/redis"
	"github.com/phrazzld/sift-api/internal/queue"
	"github.com/phrazzld/sift-api/internal/service"
	"github.com/phrazzld/sift-api/internal/task"
	"github.com/phrazzld/sift-api/internal/worker"
	"github.com/phrazzld/sift-api/internal/ws"
)

// shutdownGrace bounds how long consumers get to finish in-flight work.
const shutdownGrace = 10 * time.Second

// Default model per provider, used when llm.model is not configured.
const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.0-flash"
)

// application holds all assembled components. Construction order matters:
// transports first, then the pipeline built on top of them.
type application struct {
	config *config.Config
	logger *slog.Logger

	broker   *rabbitmq.Client
	cache    *redis.ResultCache
	registry *ws.Registry
	fetcher  *content.Fetcher

	publisher  *queue.Publisher
	processor  *worker.Processor
	evaluator  *worker.Evaluator
	relay      *ws.Relay
	submission *service.SubmissionService

	supervisor *task.Supervisor
}

// newApplication connects the transports, declares the queues, and wires
// the pipeline. Failing to reach the broker is fatal: the pipeline cannot
// run degraded without it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	broker := rabbitmq.NewClient(rabbitmq.ClientConfig{
		URL:             cfg.RabbitMQ.URL(),
		ConnectAttempts: cfg.RabbitMQ.ConnectAttempts,
		ConnectDelay:    time.Duration(cfg.RabbitMQ.ConnectDelaySeconds) * time.Second,
	}, logger)
	if err := broker.Connect(ctx); err != nil {
		return nil, fmt.Errorf("broker connection failed: %w", err)
	}

	for _, q := range []struct {
		name        string
		maxPriority int
	}{
		{queue.QueueURLTasks, queue.MaxPriority},
		{queue.QueueEvaluationTasks, queue.MaxPriority},
		{queue.QueueStatusUpdates, 0},
	} {
		if err := broker.DeclareQueue(q.name, q.maxPriority); err != nil {
			broker.Close()
			return nil, fmt.Errorf("queue declaration failed: %w", err)
		}
	}

	cache := redis.NewResultCache(goredis.NewClient(&goredis.Options{
		Addr: cfg.Redis.Addr(),
	}), logger)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("result cache unreachable at startup", "error", err)
	}

	fetcher := content.NewFetcher(nil)

	completer, err := newCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		broker.Close()
		cache.Close()
		return nil, err
	}
	analysisService := analysis.NewService(completer, fetcher, logger)

	publisher := queue.NewPublisher(broker, logger)
	registry := ws.NewRegistry(logger)

	app := &application{
		config:   cfg,
		logger:   logger,
		broker:   broker,
		cache:    cache,
		registry: registry,
		fetcher:  fetcher,

		publisher: publisher,
		processor: worker.NewProcessor(
			analysisService, publisher, cfg.Pipeline.MaxRetriesURLTask, logger),
		evaluator: worker.NewEvaluator(
			analysisService, publisher, cache,
			cfg.Pipeline.ScoreThreshold,
			cfg.Pipeline.MaxRetriesURLTask,
			cfg.Pipeline.MaxReprocessCycles,
			logger),
		relay: ws.NewRelay(registry, logger),
		submission: service.NewSubmissionService(
			cache, publisher, fetcher,
			cfg.Server.AllowedDomains,
			cfg.Pipeline.MaxRetriesURLTask,
			logger),

		supervisor: task.NewSupervisor(logger),
	}
	return app, nil
}

// newCompleter selects the LLM backend once, by configuration.
func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (analysis.Completer, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.Model == "" {
			cfg.Model = defaultOpenAIModel
		}
		return openai.NewClient(cfg, logger)
	case "gemini":
		if cfg.Model == "" {
			cfg.Model = defaultGeminiModel
		}
		return gemini.NewClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", analysis.ErrInvalidConfig, cfg.Provider)
	}
}

// startConsumers launches the three queue consumers under supervision.
func (app *application) startConsumers() {
	prefetch := app.config.Pipeline

	app.supervisor.Go("processor", func(ctx context.Context) error {
		return app.broker.Consume(ctx, queue.QueueURLTasks, prefetch.ProcessorPrefetch, app.processor.Handle)
	})
	app.supervisor.Go("evaluator", func(ctx context.Context) error {
		return app.broker.Consume(ctx, queue.QueueEvaluationTasks, prefetch.EvaluatorPrefetch, app.evaluator.Handle)
	})
	app.supervisor.Go("status_relay", func(ctx context.Context) error {
		return app.broker.Consume(ctx, queue.QueueStatusUpdates, prefetch.RelayPrefetch, app.relay.Handle)
	})
}

// cleanup stops the consumers and then releases the transports. Order
// matters: no consumer may touch the broker or cache after they close.
func (app *application) cleanup() {
	if err := app.supervisor.Stop(shutdownGrace); err != nil {
		app.logger.Error("consumer shutdown incomplete", "error", err)
	}
	app.broker.Close()
	app.cache.Close()
}

// serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully and cleans up the pipeline.
func (app *application) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.setupRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		app.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		app.cleanup()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.cleanup()
	app.logger.Info("server shutdown completed")
	return nil
}
