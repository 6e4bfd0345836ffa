package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/api/handler"
	"staffdesk/internal/api/middleware"
	"staffdesk/internal/api/router"
	"staffdesk/internal/mirror"
	"staffdesk/internal/notify"
	"staffdesk/internal/repository"
	"staffdesk/internal/service"
	"staffdesk/pkg/database"
	"staffdesk/pkg/jwt"
	applogger "staffdesk/pkg/logger"
	"staffdesk/pkg/redis"
)

// sqlPinger adapts *sql.DB to the health check
type sqlPinger struct{ db *sql.DB }

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func main() {
	// 0. .env is optional
	_ = godotenv.Load()

	// 1. config
	cfg, err := config.Load(os.Getenv("STAFFDESK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting staffdesk",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	// 3. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repo := repository.NewRepository(db)
	hub := notify.NewHub()
	checks := map[string]handler.Pinger{"database": sqlPinger{sqlDB}}

	// 4. Redis is optional: without it tokens cannot be revoked, changes stay
	// local to this instance and outbox entries wait in the queue.
	var (
		rdb       *redis.Client
		blacklist service.TokenBlacklist
		mwBlack   middleware.Blacklist
		notifier  notify.Notifier = hub
		worker    *mirror.Worker
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, running degraded", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		blacklist, mwBlack = rdb, rdb
		checks["redis"] = rdb

		bridge := notify.NewRedisBridge(hub, rdb, logger)
		notifier = bridge
		go func() {
			if err := bridge.Run(ctx); err != nil {
				logger.Error("change relay stopped", zap.Error(err))
			}
		}()

		worker = mirror.NewWorker(repo.Outbox, mirror.NewRedisMirror(rdb), mirror.NewPolicy(&cfg.Sync), logger)
	}

	// 5. services, background jobs, handlers
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, notifier, worker, logger)

	scheduler := service.NewScheduler(svc.Event, worker, cfg.Scheduler.Interval, cfg.Sync.Interval, logger)
	go scheduler.Run(ctx)

	h := handler.NewHandler(svc, hub, checks)
	engine := router.Setup(cfg, h, jwtMgr, mwBlack, rdb, logger)

	// 6. HTTP server with graceful shutdown. No WriteTimeout: /changes
	// holds its connection open.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	// background jobs and SSE streams end first
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	_ = sqlDB.Close()
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
