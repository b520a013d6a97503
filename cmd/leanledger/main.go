package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/leanledger/leanledger/internal/app"
	"github.com/leanledger/leanledger/internal/events/kafka"
	"github.com/leanledger/leanledger/internal/ledger/accounts"
	"github.com/leanledger/leanledger/internal/ledger/ledgers"
	"github.com/leanledger/leanledger/internal/ledger/records"
	"github.com/leanledger/leanledger/internal/platform/cache"
	"github.com/leanledger/leanledger/internal/platform/db"
	"github.com/leanledger/leanledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, totals cache disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	totalsCache := accounts.NewCache(redisClient, cfg.CacheTTL)

	var events records.EventPort
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("kafka close", slog.Any("error", err))
			}
		}()
		events = publisher
	}

	ledgersRepo := ledgers.NewRepository(pool)
	ledgersService := ledgers.NewService(ledgersRepo)
	ledgersHandler := ledgers.NewHandler(logger, ledgersService)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(logger, accountsRepo, totalsCache)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	recordsRepo := records.NewRepository(pool)
	recordsService := records.NewService(logger, recordsRepo, events, totalsCache)
	recordsHandler := records.NewHandler(logger, recordsService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobsClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(jobsClient, inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		LedgersHandler:  ledgersHandler,
		AccountsHandler: accountsHandler,
		RecordsHandler:  recordsHandler,
		JobsHandler:     jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
