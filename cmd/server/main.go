package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"karaoke-events/kjhub/internal/api"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/config"
	"karaoke-events/kjhub/internal/db"
	"karaoke-events/kjhub/internal/jobs"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/metrics"
	"karaoke-events/kjhub/internal/routes"
)

// @title KJ Hub API
// @version 1.0
// @description Backend for karaoke event listings, singer registration and ratings.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("KJ Hub starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	gormDB, err := db.OpenORM(cfg.Database.URL)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err)
	}

	sqlxDB, err := db.OpenSQLX(cfg.Database.URL)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err)
	}
	defer sqlxDB.Close()

	var (
		cache       common.CacheInterface
		redisClient *redis.Client
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		redisClient = common.NewRedisClient(cfg.Redis)
		cache = common.NewRedisCacheService(redisClient)
	default:
		cache = common.NewCacheService(cfg.Cache.StatsTTL, 2*cfg.Cache.StatsTTL)
	}
	defer cache.Close()
	logging.Info("Cache backend selected", "backend", cfg.Cache.Backend)

	metricsReg := metrics.NewMetricsRegistry()
	deps := api.InitDependencies(cfg, gormDB, sqlxDB, cache, redisClient, metricsReg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobsDone := jobs.InitializeJobs(ctx, cfg.Jobs,
		deps.Repo.Event,
		deps.Repo.Registration,
		deps.Services.Notification,
		metricsReg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           routes.RegisterRoutes(deps, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
	jobsDone.Wait()
	logging.Info("Server stopped")
}
