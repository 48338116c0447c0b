// Command outboxctl inspects and repairs the record-event outbox.
//
//	outboxctl requeue [-limit n]   return parked events to the pending set
//	outboxctl drain                publish every pending event to Kafka and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Priyanshux26/Gym-management-system/internal/app"
	"github.com/Priyanshux26/Gym-management-system/internal/config"
	"github.com/Priyanshux26/Gym-management-system/internal/observability"
	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
)

const defaultRequeueLimit = 100

func main() {
	fs := flag.NewFlagSet("outboxctl", flag.ExitOnError)
	limit := fs.Int("limit", defaultRequeueLimit, "maximum parked events to requeue")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: outboxctl <requeue|drain> [flags]")
		fs.PrintDefaults()
	}
	if len(os.Args) < 2 {
		fs.Usage()
		os.Exit(2)
	}
	command := os.Args[1]
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger("info").Fatal("failed to load config", zap.Error(err))
	}
	logger := observability.NewLogger(cfg.LogLevel).Named("outboxctl")
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	switch command {
	case "requeue":
		n, err := outbox.Requeue(ctx, store, *limit, logger)
		if err != nil {
			logger.Fatal("requeue failed", zap.Error(err))
		}
		logger.Info("requeue finished", zap.Int("requeued", n))
	case "drain":
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer func() { _ = producer.Close() }()

		dispatcher := outbox.NewDispatcher(store, producer, outbox.Config{
			Topic:       cfg.EventsTopic,
			BatchSize:   cfg.OutboxBatchSize,
			MaxAttempts: cfg.OutboxMaxAttempts,
		}, logger)
		n, err := dispatcher.Drain(ctx)
		if err != nil {
			logger.Error("drain stopped", zap.Int("delivered", n), zap.Error(err))
			return
		}
		logger.Info("drain finished", zap.Int("delivered", n))
	default:
		fs.Usage()
		os.Exit(2)
	}
}
