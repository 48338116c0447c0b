// Package outbox delivers record events written alongside back-office inserts to Kafka.
package outbox

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Config tunes the dispatcher loop.
type Config struct {
	Topic        string
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	LeaseFor     time.Duration
}

// Dispatcher drains the outbox and delivers events to a single Kafka topic.
type Dispatcher struct {
	source           Source
	producer         messageWriter
	cfg              Config
	logger           *zap.Logger
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher, applying defaults for unset config values.
func NewDispatcher(source Source, producer messageWriter, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.LeaseFor <= 0 {
		cfg.LeaseFor = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		source:           source,
		producer:         producer,
		cfg:              cfg,
		logger:           logger,
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if _, err := d.ProcessBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("outbox dispatch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the dispatcher loop has stopped.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

// ProcessBatch claims one batch, delivers it and records the outcome. It returns the
// number of messages delivered.
func (d *Dispatcher) ProcessBatch(ctx context.Context) (int, error) {
	start := time.Now()

	messages, err := d.source.ClaimOutbox(ctx, d.cfg.BatchSize, d.cfg.LeaseFor)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	ids := make([]int64, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.EventID)
	}

	if err := d.producer.WriteMessages(ctx, d.cfg.Topic, toKafka(messages)...); err != nil {
		d.logger.Warn("outbox delivery failed", zap.Int("batch", len(messages)), zap.Error(err))
		failedCounter.Add(float64(len(messages)))
		if markErr := d.source.MarkFailed(ctx, ids, err.Error(), d.cfg.MaxAttempts); markErr != nil {
			return 0, errors.Join(err, markErr)
		}
		return 0, err
	}

	deliveredCounter.Add(float64(len(messages)))
	if err := d.source.MarkPublished(ctx, ids); err != nil {
		return 0, err
	}
	return len(messages), nil
}

func toKafka(messages []Message) []kafka.Message {
	out := make([]kafka.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, kafka.Message{
			Key:   []byte(msg.AggregateType + ":" + strconv.FormatInt(msg.AggregateID, 10)),
			Value: []byte(msg.Payload),
			Time:  msg.CreatedAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(msg.EventType)},
				{Key: "aggregate_type", Value: []byte(msg.AggregateType)},
				{Key: "dedupe_key", Value: []byte(msg.DedupeKey)},
			},
		})
	}
	return out
}
