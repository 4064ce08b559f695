package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/tracker/internal/api"
	"example.com/tracker/internal/auth"
	"example.com/tracker/internal/config"
	"example.com/tracker/internal/domain"
	"example.com/tracker/internal/events"
	"example.com/tracker/internal/persistence/postgres"
	httptransport "example.com/tracker/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	repo := postgres.NewRepository(pool)

	opts := []domain.Option{domain.WithLogger(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.EventTopic)
		defer publisher.Close()
		opts = append(opts, domain.WithEventPublisher(publisher))
	}

	service := domain.NewService(repo, repo, opts...)

	handler := api.NewHandler(service, logger, api.StaticDirs{
		Public: cfg.PublicDir,
		User:   cfg.UserDir,
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	sessions := auth.NewMiddleware(auth.Config{
		Secret: cfg.SessionSecret,
		Issuer: cfg.SessionIssuer,
	}, api.ProtectedPaths(), api.LoginPath)

	chain := httptransport.RequestID(
		httptransport.AccessLog(logger, sessions.Wrap(mux)))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}, chain)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("tracker listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
