package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"datingroulette/backend/internal/api/handler"
	"datingroulette/backend/internal/chathub"
	"datingroulette/backend/internal/complaint"
	"datingroulette/backend/internal/config"
	"datingroulette/backend/internal/messaging"
	"datingroulette/backend/internal/roulette"
	"datingroulette/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}

	logger.Info("database and redis connections established")
	return db, rdb
}

func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := zap.NewProduction()
	if cfg.Development() {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Dependencies
	db, rdb := setupDependencies(ctx, cfg, logger)
	store := storage.NewStorageService(db, rdb, cfg.AttributeCacheTTL, logger)
	if err := store.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// 2. Hub, pairing engine and audit sinks
	hub := chathub.NewManagerService(logger)

	opts := []roulette.Option{
		roulette.WithAuditBuffer(cfg.AuditBuffer),
		roulette.WithRecorder(storage.NewSessionRecorder(store)),
	}
	if cfg.NATSURL != "" {
		nc, err := messaging.NewNATSClient(messaging.DefaultNATSConfig(cfg.NATSURL), logger)
		if err != nil {
			logger.Fatal("failed to connect NATS", zap.Error(err))
		}
		defer nc.Close()
		opts = append(opts, roulette.WithRecorder(messaging.NewSessionPublisher(nc)))
	}

	coord := roulette.NewCoordinator(storage.NewAttributeSource(store), hub, logger, opts...)
	hub.SetPairing(coord)
	hub.SetReporter(complaint.NewService(store, logger))

	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		coord.Run(ctx)
	}()

	// 3. HTTP
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	h := handler.NewHandler(hub, coord, handler.NewTokens(cfg.JWTSecret, cfg.TokenTTL), logger)
	h.SendBuffer = cfg.WSSendBuffer
	h.MaxMessageSize = cfg.WSMaxMessageSize
	h.Routes(r, cfg.Development())

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	select {
	case <-auditDone:
	case <-shutdownCtx.Done():
		logger.Warn("audit flush did not finish before shutdown deadline")
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("redis close", zap.Error(err))
	}
}
