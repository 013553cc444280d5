package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/grpcserver"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/jobs"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db.LoadEnv()
	log := logger.New()
	defer func() { _ = log.Sync() }()

	database, err := db.NewDb(ctx)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer database.GetPool().Close()

	db.InitAdmin(database)

	deps := storage.Deps{
		Orders:   postgresql.NewOrderRepo(database),
		Cells:    postgresql.NewCellRepo(database),
		Users:    postgresql.NewUserRepo(database),
		Products: postgresql.NewProductRepo(database),
		Receipts: postgresql.NewReceiptRepo(database),
		Returns:  postgresql.NewReturnRepo(database),
		History:  postgresql.NewHistoryRepo(database),
		Audit:    postgresql.NewAuditRepo(),
		Outbox:   postgresql.NewOutboxTaskRepo(),
	}

	orderCache := cache.NewOrderCache(deps.Orders, log)
	if err := orderCache.LoadInitialData(ctx); err != nil {
		log.Fatal("order cache warmup failed", zap.Error(err))
	}

	store := storage.NewPVZStorage(database, deps, orderCache, log)

	redisClient, err := server.NewRedisClient(ctx)
	if err != nil {
		log.Fatal("redis init failed", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	sessions := server.NewRedisSessions(redisClient, sessionTTL(), log)
	sink := server.NewOutboxAuditSink(store)
	httpSrv := server.New(store, sessions, sink, log)

	producer := kafka.NewWriterProducer(kafkaBrokers())
	publisher := kafka.NewPublisher(database, deps.Outbox, producer, kafka.PublisherConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    50,
		MaxAttempts:  5,
	}, log)

	retention := jobs.NewRetentionJob(store, log)
	if err := retention.Start(); err != nil {
		log.Fatal("retention job start failed", zap.Error(err))
	}
	defer retention.Stop()

	grpcSrv := grpcserver.NewServer(database, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpSrv.Run(gctx, envOr("PORT", "9000"))
	})
	g.Go(func() error {
		return grpcSrv.Run(gctx, envOr("GRPC_PORT", "9090"))
	})
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("service stopped", zap.Error(err))
	}
	log.Info("service stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func kafkaBrokers() []string {
	return strings.Split(envOr("KAFKA_BROKERS", "localhost:9092"), ",")
}

func sessionTTL() time.Duration {
	ttl, err := time.ParseDuration(envOr("SESSION_TTL", "24h"))
	if err != nil {
		return 24 * time.Hour
	}
	return ttl
}
