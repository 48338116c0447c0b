package observability

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
)

type metricsComputer interface {
	ComputeMetrics(ctx context.Context, now time.Time) (analytics.Metrics, error)
}

// GaugeRefresher periodically recomputes the dashboard KPIs and exports them as gauges.
// It never caches values for request handlers.
type GaugeRefresher struct {
	metrics metricsComputer
	clock   func() time.Time
	timeout time.Duration
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewGaugeRefresher constructs a refresher. clock supplies "now" for each run.
func NewGaugeRefresher(metrics metricsComputer, clock func() time.Time, timeout time.Duration, logger *zap.Logger) *GaugeRefresher {
	if clock == nil {
		clock = time.Now
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GaugeRefresher{metrics: metrics, clock: clock, timeout: timeout, logger: logger}
}

// Refresh recomputes and publishes the gauges once.
func (g *GaugeRefresher) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	now := g.clock()
	m, err := g.metrics.ComputeMetrics(ctx, now)
	if err != nil {
		g.logger.Warn("dashboard gauge refresh failed", zap.Error(err))
		return err
	}
	RecordMetrics(m, now)
	return nil
}

// Start schedules Refresh on spec (standard cron or "@every" syntax).
func (g *GaugeRefresher) Start(ctx context.Context, spec string) error {
	g.cron = cron.New()
	if _, err := g.cron.AddFunc(spec, func() { _ = g.Refresh(ctx) }); err != nil {
		return err
	}
	g.cron.Start()
	g.logger.Info("dashboard gauge refresher started", zap.String("schedule", spec))
	return nil
}

// Stop halts scheduling and waits for a running refresh to finish.
func (g *GaugeRefresher) Stop() {
	if g.cron == nil {
		return
	}
	<-g.cron.Stop().Done()
}
