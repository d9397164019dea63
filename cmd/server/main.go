package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/second-brain/backend/internal/auth"
	"github.com/ayush/second-brain/backend/internal/config"
	"github.com/ayush/second-brain/backend/internal/content"
	"github.com/ayush/second-brain/backend/internal/logging"
	"github.com/ayush/second-brain/backend/internal/server"
	"github.com/ayush/second-brain/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// ── Sentry + logging ─────────────────────────────────────
	sentryEnabled := false
	var extra []slog.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
			extra = append(extra, logging.NewSentryHandler(sentry.CurrentHub()))
			defer sentry.Flush(2 * time.Second)
		}
	}
	logger := logging.Setup(cfg.LogLevel, extra...)

	ctx := context.Background()

	var (
		users interface {
			auth.UserStore
			content.ShareStore
		}
		contents content.Store
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		mem := store.NewMemoryStore()
		users, contents = mem, mem
		logger.Warn("using in-memory storage, data is lost on restart")

	default:
		// ── PostgreSQL ────────────────────────────────────────────
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			fatal(logger, "postgres connect", err)
		}
		defer pgPool.Close()
		db := stdlib.OpenDBFromPool(pgPool)
		defer db.Close()
		if err := store.Migrate(ctx, db); err != nil {
			fatal(logger, "postgres migrate", err)
		}
		users = store.NewPostgresStore(db)

		// ── MongoDB ──────────────────────────────────────────────
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			fatal(logger, "mongo connect", err)
		}
		defer mongoClient.Disconnect(context.Background())
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			fatal(logger, "mongo indexes", err)
		}
		contents = mongoStore
	}

	// ── Redis (sign-in throttle) ─────────────────────────────
	var throttle *auth.Throttle
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			fatal(logger, "redis connect", err)
		}
		defer rdb.Close()
		throttle = auth.NewThrottle(store.NewRedisCounter(rdb), cfg.SigninMaxAttempts, cfg.SigninWindow, logger)
	}

	// ── Services ─────────────────────────────────────────────
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		fatal(logger, "token service", err)
	}
	passwords, err := auth.NewPasswords(cfg.PasswordStorage)
	if err != nil {
		fatal(logger, "password storage", err)
	}
	authSvc := auth.NewService(users, tokens, passwords, throttle, logger)
	contentSvc := content.NewService(contents, users, cfg.ShareBaseURL, logger)

	// ── Router ───────────────────────────────────────────────
	handler := server.NewRouter(server.Options{
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
		Sentry:      sentryEnabled,
	}, tokens, auth.NewHandler(authSvc, logger), content.NewHandler(contentSvc, logger), logger)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "prefix", cfg.APIPrefix, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	sentry.Flush(2 * time.Second)
	os.Exit(1)
}
