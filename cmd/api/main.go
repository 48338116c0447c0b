package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/api"
	"github.com/Priyanshux26/Gym-management-system/internal/app"
	"github.com/Priyanshux26/Gym-management-system/internal/auth"
	"github.com/Priyanshux26/Gym-management-system/internal/config"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/observability"
	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
	httptransport "github.com/Priyanshux26/Gym-management-system/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger("info").Fatal("failed to load config", zap.Error(err))
	}
	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.TokenTTL}
	var revoked auth.RevocationList = auth.NewMemoryRevocationList()
	if cfg.RedisURL != "" {
		redisList, err := auth.NewRedisRevocationList(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		defer func() { _ = redisList.Close() }()
		if err := redisList.Ping(ctx); err != nil {
			logger.Fatal("failed to reach redis", zap.Error(err))
		}
		revoked = redisList
	}

	aggregator := analytics.NewAggregator(store)
	composer := analytics.NewComposer(store, analytics.WithConcurrency(cfg.ReportConcurrency))

	handler := api.NewHandler(api.Deps{
		Service:       domain.NewService(store),
		Aggregator:    aggregator,
		Composer:      composer,
		Authenticator: auth.NewAuthenticator(store, authCfg, revoked),
		Clock:         cfg.Now,
		Logger:        logger,
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	if cfg.MetricsAddress == "" {
		mux.Handle("/metrics", promhttp.Handler())
	}

	var dispatcher *outbox.Dispatcher
	if cfg.OutboxEnabled {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer func() { _ = producer.Close() }()

		dispatcher = outbox.NewDispatcher(store, producer, outbox.Config{
			Topic:        cfg.EventsTopic,
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxAttempts:  cfg.OutboxMaxAttempts,
		}, logger.Named("outbox"))
		go dispatcher.Start(ctx)
	}

	var gauges *observability.GaugeRefresher
	if cfg.GaugeSchedule != "" {
		gauges = observability.NewGaugeRefresher(aggregator, cfg.Now, cfg.QueryTimeout*4, logger.Named("gauges"))
		if err := gauges.Start(ctx, cfg.GaugeSchedule); err != nil {
			logger.Fatal("invalid GAUGE_SCHEDULE", zap.String("schedule", cfg.GaugeSchedule), zap.Error(err))
		}
		_ = gauges.Refresh(ctx)
	}

	authMiddleware := auth.NewMiddleware(authCfg, revoked)
	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress), httptransport.Chain(mux,
		httptransport.RequestID,
		httptransport.Recovery(logger),
		httptransport.Logging(logger),
		httptransport.CORS(cfg.CORSOrigin),
		authMiddleware.Wrap,
	))

	var metricsServer *http.Server
	if cfg.MetricsAddress != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer = httptransport.NewServer(httptransport.DefaultServerConfig(cfg.MetricsAddress), metricsMux)
		go func() {
			logger.Info("metrics listening", zap.String("address", cfg.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("gym back office listening",
			zap.String("address", cfg.HTTPAddress),
			zap.String("store", cfg.StoreDriver),
			zap.Bool("outbox", cfg.OutboxEnabled))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	if gauges != nil {
		gauges.Stop()
	}
	if dispatcher != nil {
		dispatcher.Wait()
	}
}
