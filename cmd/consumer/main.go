package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/storage"
)

const groupID = "audit-log-consumer-group"

// Debugging tool for the audit pipeline: tails the audit topic and prints
// every message it sees.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	brokers := strings.Split(brokersEnv(), ",")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          storage.AuditTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Error("kafka reader close failed", zap.Error(err))
		}
	}()

	log.Info("audit consumer started",
		zap.Strings("brokers", brokers), zap.String("topic", storage.AuditTopic))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit consumer stopping")
				return
			}
			log.Error("read message failed", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		log.Info("audit event",
			zap.Time("timestamp", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key),
			zap.ByteString("value", m.Value))
	}
}

func brokersEnv() string {
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		return v
	}
	return "localhost:9092"
}
