package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/prabavijay/financeflowapp2/internal/amqp"
	"github.com/prabavijay/financeflowapp2/internal/cache"
	"github.com/prabavijay/financeflowapp2/internal/config"
	"github.com/prabavijay/financeflowapp2/internal/core"
	apphttp "github.com/prabavijay/financeflowapp2/internal/http"
	applog "github.com/prabavijay/financeflowapp2/internal/log"
	"github.com/prabavijay/financeflowapp2/internal/payoff"
	"github.com/prabavijay/financeflowapp2/internal/services"
	"github.com/prabavijay/financeflowapp2/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	planCache := newPlanCache(ctx, cfg, logger)

	var publisher services.PlanPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Plan export pipeline enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Plan export pipeline disabled - no AMQP_URL provided")
	}

	bounds := payoff.ExtraPaymentBounds{
		Floor:   core.Money{Cents: cfg.ExtraPaymentFloorCents},
		Ceiling: core.Money{Cents: cfg.ExtraPaymentCeilingCents},
	}
	plans := services.NewPlanService(repo, planCache, publisher, cfg.PlanCacheTTL, bounds)
	projections := services.NewProjectionService(repo)

	srv := apphttp.NewServer(":"+cfg.Port, repo, repo, plans, projections)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB
	srv.Handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(srv.Handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting financeflow server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// newPlanCache prefers Redis when configured, falling back to the in-memory
// cache so single-instance deployments need no extra services.
func newPlanCache(ctx context.Context, cfg *config.Config, logger *applog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-memory plan cache")
		return cache.NewMemoryCache()
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory plan cache",
			"redis_addr", cfg.RedisAddr, applog.FieldError, err)
		_ = redisCache.Close()
		return cache.NewMemoryCache()
	}

	logger.Info("Using Redis plan cache", "redis_addr", cfg.RedisAddr)
	return redisCache
}
