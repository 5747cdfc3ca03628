package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rizalw/pricetag/internal/barcode"
	"github.com/rizalw/pricetag/internal/config"
	handler "github.com/rizalw/pricetag/internal/handler/http"
	"github.com/rizalw/pricetag/internal/label"
	"github.com/rizalw/pricetag/internal/photo"
	"github.com/rizalw/pricetag/internal/repository"
	"github.com/rizalw/pricetag/internal/repository/memory"
	"github.com/rizalw/pricetag/internal/repository/postgres"
	"github.com/rizalw/pricetag/internal/service"
	"github.com/rizalw/pricetag/migrations"
	"github.com/rizalw/pricetag/pkg/database"
	"github.com/rizalw/pricetag/pkg/health"
)

// App wires together all dependencies and runs the label service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	catalog    *service.CatalogService
	pipeline   *label.Pipeline
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	repo, err := a.initCatalogBackend(ctx)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.closeBackends()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis")
		a.redis = redisClient
	}

	catalog, err := service.NewCatalogService(repo, cfg.ProductCacheSize, logger,
		service.WithDigitFallback(cfg.DigitFallback))
	if err != nil {
		a.closeBackends()
		return nil, fmt.Errorf("create catalog service: %w", err)
	}
	a.catalog = catalog

	pipeline, err := a.buildPipeline()
	if err != nil {
		a.closeBackends()
		return nil, err
	}
	a.pipeline = pipeline

	healthHandler := health.NewHandler()
	if a.pool != nil {
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return a.pool.Ping(ctx)
		})
	}
	if a.redis != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(catalog, pipeline, healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

func (a *App) initCatalogBackend(ctx context.Context) (repository.ProductRepository, error) {
	switch a.cfg.CatalogBackend {
	case "postgres":
		pgCfg := database.PostgresConfig{
			Host:            a.cfg.PostgresHost,
			Port:            a.cfg.PostgresPort,
			User:            a.cfg.PostgresUser,
			Password:        a.cfg.PostgresPass,
			DBName:          a.cfg.PostgresDB,
			SSLMode:         a.cfg.PostgresSSL,
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		}
		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.logger.Info("connected to PostgreSQL",
			slog.String("host", a.cfg.PostgresHost),
			slog.String("database", a.cfg.PostgresDB),
		)
		if err := database.RunMigrations(ctx, pool, migrations.FS, a.logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.pool = pool
		return postgres.NewCatalogRepository(pool), nil

	default:
		repo := memory.NewCatalogRepository()
		n, err := repo.LoadFile(a.cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		a.logger.Info("catalog loaded",
			slog.String("path", a.cfg.CatalogPath),
			slog.Int("products", n),
		)
		return repo, nil
	}
}

func (a *App) buildPipeline() (*label.Pipeline, error) {
	renderer, err := barcode.NewRenderer(barcode.DefaultOptions(), a.cfg.BarcodeCacheSize, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create barcode renderer: %w", err)
	}

	fetcher := photo.NewFetcher(time.Duration(a.cfg.ImageFetchTimeoutSeconds)*time.Second, a.logger)

	labelCfg := label.DefaultConfig()
	labelCfg.Fit = photo.ParseFitPolicy(a.cfg.ImageFit)

	return label.NewPipeline(labelCfg, renderer, fetcher, a.logger), nil
}

// SessionTTL returns the configured session lifetime.
func (a *App) SessionTTL() time.Duration {
	return time.Duration(a.cfg.SessionTTLHours) * time.Hour
}

// Catalog exposes the catalog service for non-HTTP frontends.
func (a *App) Catalog() *service.CatalogService { return a.catalog }

// Pipeline exposes the label pipeline for non-HTTP frontends.
func (a *App) Pipeline() *label.Pipeline { return a.pipeline }

// Redis returns the Redis client, nil when not configured.
func (a *App) Redis() *redis.Client { return a.redis }

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeBackends()

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeBackends() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
