package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pulsefeed/pulse-api/internal/api"
	"github.com/pulsefeed/pulse-api/internal/config"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/generation"
	"github.com/pulsefeed/pulse-api/internal/platform/gemini"
	"github.com/pulsefeed/pulse-api/internal/platform/mediaengine"
	"github.com/pulsefeed/pulse-api/internal/platform/memory"
	"github.com/pulsefeed/pulse-api/internal/platform/postgres"
	"github.com/pulsefeed/pulse-api/internal/scheduler"
	"github.com/pulsefeed/pulse-api/internal/service"
	"github.com/pulsefeed/pulse-api/internal/store"
	"github.com/pulsefeed/pulse-api/internal/task"
	"github.com/pulsefeed/pulse-api/internal/trends"
	"github.com/pulsefeed/pulse-api/internal/trends/sources"
)

const serverShutdownTimeout = 10 * time.Second

// application holds the composed dependency graph: stores, the task
// runner, the optional scheduler and the HTTP router.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	runner    *task.Runner
	scheduler *scheduler.Scheduler
	router    http.Handler
}

// newApplication wires the full dependency graph from configuration.
// An empty database URL selects the in-memory stores, which is the
// development default.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	var (
		taskStore    store.TaskStore
		trendStore   store.TrendStore
		contentStore store.ContentStore
	)
	if cfg.Database.URL != "" {
		db, err := openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := migrateUp(db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying migrations: %w", err)
		}
		app.db = db
		taskStore = postgres.NewPostgresTaskStore(db)
		trendStore = postgres.NewPostgresTrendStore(db)
		contentStore = postgres.NewPostgresContentStore(db)
		logger.Info("using postgresql stores")
	} else {
		taskStore = memory.NewTaskStore()
		trendStore = memory.NewTrendStore()
		contentStore = memory.NewContentStore()
		logger.Info("using in-memory stores")
	}

	// Trend aggregation pipeline. All sources share one HTTP client
	// bounded by the configured fetch timeout.
	fetchClient := &http.Client{Timeout: time.Duration(cfg.Trends.FetchTimeoutSeconds) * time.Second}
	vocab := trends.DefaultVocabulary()
	aggregator := trends.NewAggregator(logger, cfg.Trends.MaxTrends,
		sources.NewYouTubeSource(fetchClient, logger, vocab, nil),
		sources.NewGoogleTrendsSource(fetchClient, logger, vocab, nil),
		sources.NewRSSFeedsSource(fetchClient, logger, vocab, cfg.Trends.FeedURLs, nil),
	)

	// Script generation. Gemini when an API key is configured, fixed
	// phrase templates otherwise.
	var generator generation.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		geminiGen, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini generator: %w", err)
		}
		generator = geminiGen
		logger.Info("using gemini script generator", slog.String("model", cfg.LLM.ModelName))
	} else {
		generator = generation.NewTemplateGenerator()
		logger.Info("using template script generator")
	}

	synthesizer := mediaengine.NewHTTPAudioClient(cfg.Media.TTSBaseURL, nil, logger)
	renderer := mediaengine.NewHTTPVideoClient(cfg.Media.VideoBaseURL, nil, logger)

	emitter := events.NewInMemoryEventEmitter(logger)

	registry := task.NewFactoryRegistry()
	registry.Register(task.NewTrendMonitoringTaskFactory(taskStore, trendStore, contentStore, aggregator, emitter, logger))
	registry.Register(task.NewContentGenerationTaskFactory(taskStore, contentStore, generator, logger))
	registry.Register(task.NewTTSGenerationTaskFactory(taskStore, synthesizer, logger))
	registry.Register(task.NewVideoGenerationTaskFactory(taskStore, renderer, logger))

	runnerConfig := task.DefaultRunnerConfig()
	runnerConfig.WorkerCount = cfg.Trends.WorkerCount
	runnerConfig.QueueSize = cfg.Trends.QueueSize
	app.runner = task.NewRunner(taskStore, registry, runnerConfig, logger)

	dispatcher := task.NewDispatcher(registry, app.runner, logger)
	emitter.RegisterHandler(dispatcher)

	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.NewScheduler(
			taskStore,
			emitter,
			time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second,
			cfg.Scheduler.Sources,
			logger,
		)
	}

	taskService := service.NewTaskService(taskStore, emitter, logger)
	trendService := service.NewTrendService(trendStore, contentStore, taskStore, emitter, logger)
	contentService := service.NewContentService(contentStore, taskStore, emitter, logger)
	mediaService := service.NewMediaService(taskStore, emitter, logger)

	app.router = api.NewRouter(api.Handlers{
		Tasks:   api.NewTaskHandler(taskService, logger),
		Trends:  api.NewTrendHandler(trendService, taskService, logger),
		Content: api.NewContentHandler(contentService, logger),
		Media:   api.NewMediaHandler(mediaService, logger),
	})

	return app, nil
}

// Run starts the background workers and serves HTTP until ctx is
// canceled, then shuts everything down in reverse order.
func (app *application) Run(ctx context.Context) error {
	if err := app.runner.Start(); err != nil {
		return fmt.Errorf("starting task runner: %w", err)
	}

	if app.scheduler != nil {
		if err := app.scheduler.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		app.logger.Info("scheduler started",
			slog.Int("interval_seconds", app.config.Scheduler.IntervalSeconds))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		app.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}

	app.cleanup()
	app.logger.Info("server shutdown completed")
	return nil
}

// cleanup stops background work and closes shared resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	app.runner.Stop()
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("closing database failed", slog.String("error", err.Error()))
		}
	}
}
