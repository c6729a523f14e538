// Command server starts the recommendation backend HTTP API together with its
// background machinery: the redis-backed retrain worker and the cron
// scheduler. Shutdown is graceful: SIGINT/SIGTERM stops accepting traffic,
// drains in-flight requests, halts the scheduler and worker, and flushes
// traces.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"github.com/dperalta/go-recsys-backend/docs"
	"github.com/dperalta/go-recsys-backend/internal/config"
	httpapi "github.com/dperalta/go-recsys-backend/internal/http"
	"github.com/dperalta/go-recsys-backend/internal/jobs"
	"github.com/dperalta/go-recsys-backend/internal/mlclient"
	"github.com/dperalta/go-recsys-backend/internal/observability"
	"github.com/dperalta/go-recsys-backend/internal/repo"
	"github.com/dperalta/go-recsys-backend/internal/search"
	"github.com/dperalta/go-recsys-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title        Recommendation Backend API
// @version      1.0
// @description  Catalog, interaction and recommendation API backed by an external ML service.
// @BasePath     /
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	{
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable")
		}
	}

	ml := mlclient.New(cfg.ML)
	queue := jobs.NewQueue(rdb, cfg.Redis.QueueKey)
	lock := jobs.NewRedisLock(rdb, cfg.Redis.LockKey)

	// Build the catalog search index once at startup. A missing or empty
	// catalog is not fatal; search simply returns no results.
	items, err := repo.AllItems(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog load failed")
	}
	idx := search.NewIndexFromItems(items)
	log.Info().Int("items", len(items)).Msg("search index built")

	// Background machinery.
	if cfg.Retrain.WorkerEnabled {
		worker := &jobs.Worker{
			Queue:   queue,
			Lock:    lock,
			Client:  ml,
			LockTTL: cfg.Retrain.LockTTL,
		}
		go worker.Run(ctx)
	} else {
		log.Warn().Msg("retrain worker disabled; queued jobs will not execute in this process")
	}

	sched := &jobs.Scheduler{Queue: queue, Schedule: cfg.Retrain.Schedule}
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Retrain.Schedule).Msg("scheduler start failed")
	}

	// HTTP surface.
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{DB: db, ML: ml, Queue: queue, Index: idx}, cfg)

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown incomplete")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler stop failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server stopped")
}
