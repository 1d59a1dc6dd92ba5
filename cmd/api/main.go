package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/stockmasterhq/stockmaster-backend/api/routes"
	"github.com/stockmasterhq/stockmaster-backend/internal/dashboard"
	"github.com/stockmasterhq/stockmaster-backend/internal/operations"
	"github.com/stockmasterhq/stockmaster-backend/internal/products"
	"github.com/stockmasterhq/stockmaster-backend/internal/reconciliation"
	"github.com/stockmasterhq/stockmaster-backend/internal/stockledger"
	"github.com/stockmasterhq/stockmaster-backend/internal/warehouses"
	"github.com/stockmasterhq/stockmaster-backend/pkg/chainledger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
	"github.com/stockmasterhq/stockmaster-backend/pkg/migrate"
	"github.com/stockmasterhq/stockmaster-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var snapshotCache dashboard.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		snapshotCache = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, dashboard snapshots are uncached")
	}

	registry := prometheus.NewRegistry()
	operationMetrics := metrics.NewOperationMetrics(registry)

	productSvc, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	warehouseSvc, err := warehouses.NewService(warehouses.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouses service", err)
		os.Exit(1)
	}

	operationsRepo := operations.NewRepository(dbClient.DB())
	reconciler := reconciliation.NewWorker(
		chainledger.New(cfg.Chain),
		operationsRepo,
		operationMetrics,
		logg,
		cfg.Chain.CallTimeout,
	)

	operationsSvc, err := operations.NewService(operations.Config{
		Repo:       operationsRepo,
		Ledger:     stockledger.NewRepository(dbClient.DB()),
		Engine:     stockledger.NewEngine(dbClient.DB()),
		Tx:         dbClient,
		Products:   productSvc,
		Warehouses: warehouseSvc,
		Reconciler: reconciler,
		Metrics:    operationMetrics,
		Logger:     logg,
		MaxRetries: cfg.Operations.MaxConflictRetries,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create operations service", err)
		os.Exit(1)
	}

	dashboardSvc, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()), snapshotCache, cfg.Dashboard.CacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DBPinger:   dbClient,
			Operations: operationsSvc,
			Products:   productSvc,
			Warehouses: warehouseSvc,
			Dashboard:  dashboardSvc,
			Registry:   registry,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	closeErr := server.Shutdown(shutdownCtx)
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
