// Package app wires the search service together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/database"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/health"
	pkgkafka "github.com/chandan1708/AI-Enabled-E-commerce/pkg/kafka"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/auth"
	catalogpg "github.com/chandan1708/AI-Enabled-E-commerce/internal/catalog/postgres"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/config"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/event"
	handler "github.com/chandan1708/AI-Enabled-E-commerce/internal/handler/http"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index/elasticsearch"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/index/memory"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/service"
	"github.com/chandan1708/AI-Enabled-E-commerce/internal/sync"
)

// startupTimeout bounds dependency initialization (connections, index
// creation) at process start.
const startupTimeout = 15 * time.Second

// App wires together all dependencies and runs the search service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	scheduler  *sync.Scheduler
	consumers  []*pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Search index based on configuration.
	var (
		idx      index.Index
		queryLog index.QueryLog
		esClient *elasticsearch.Client
	)
	switch cfg.SearchEngine {
	case "elasticsearch":
		var err error
		esClient, err = elasticsearch.New(elasticsearch.Config{
			URL:         cfg.ElasticsearchURL,
			IndexPrefix: cfg.ElasticsearchPrefix,
			FuzzySearch: cfg.FuzzySearch,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch: %w", err)
		}
		if err := esClient.EnsureIndices(ctx); err != nil {
			return nil, fmt.Errorf("ensure indices: %w", err)
		}
		idx = esClient
		queryLog = elasticsearch.NewQueryLogStore(esClient)
		logger.Info("elasticsearch index initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("prefix", cfg.ElasticsearchPrefix),
		)
	default:
		eng := memory.New()
		idx = eng
		queryLog = eng
		logger.Info("in-memory index initialized")
	}

	// Catalog database.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := catalogpg.NewProductStore(pool)

	// Trending cache. The service degrades to uncached reads without it,
	// so a missing Redis is not fatal.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, trending cache disabled", slog.String("error", err.Error()))
		redisClient = nil
	}

	// Service layer.
	searchService := service.NewSearchService(idx, queryLog, logger)
	trendingService := service.NewTrendingService(queryLog, redisClient, logger)
	analyticsService := service.NewAnalyticsService(queryLog, logger)

	// Index sync.
	orchestrator := sync.NewOrchestrator(store, idx, logger)
	scheduler := sync.NewScheduler(orchestrator, sync.SchedulerConfig{
		Interval:        cfg.SyncInterval,
		Window:          cfg.SyncWindow,
		FullReindexHour: cfg.FullReindexHour,
	}, logger)

	// Kafka consumers for catalog and inventory events.
	eventConsumer := event.NewConsumer(orchestrator, logger)

	var consumers []*pkgkafka.Consumer
	topics := event.Topics()
	for _, topic := range topics {
		consumerCfg := pkgkafka.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  cfg.KafkaConsumerGroup,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6, // 10 MB
		}
		consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
	}
	logger.Info("kafka consumers initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.Int("topic_count", len(topics)),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	if esClient != nil {
		healthHandler.Register("elasticsearch", esClient.Ping)
	}
	healthHandler.Register("postgres", pool.Ping)
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	validator := auth.NewValidator(cfg.JWTSecret)
	router := handler.NewRouter(handler.RouterConfig{
		Search:        handler.NewSearchHandler(searchService, trendingService, logger),
		Admin:         handler.NewAdminHandler(orchestrator, analyticsService, cfg.SyncWindow, logger),
		Health:        healthHandler,
		ValidateToken: validator.Validate,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		scheduler:  scheduler,
		consumers:  consumers,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server, the sync scheduler, and the Kafka consumers,
// blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	a.scheduler.Start(ctx)

	for _, c := range a.consumers {
		go func(c *pkgkafka.Consumer) {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}(c)
	}

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.scheduler.Stop()

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
