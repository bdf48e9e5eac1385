package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-alert-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-alert-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-alert-service/internal/adapter/seismicportal"
	"github.com/couchcryptid/quake-alert-service/internal/adapter/telegram"
	"github.com/couchcryptid/quake-alert-service/internal/adapter/tmdweb"
	"github.com/couchcryptid/quake-alert-service/internal/config"
	"github.com/couchcryptid/quake-alert-service/internal/dedup"
	"github.com/couchcryptid/quake-alert-service/internal/observability"
	"github.com/couchcryptid/quake-alert-service/internal/poller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dedup store", "error", err)
		os.Exit(1)
	}

	source := newSource(cfg, logger)

	sink := telegram.NewSink(telegram.DefaultBaseURL, cfg.TelegramToken, cfg.TelegramChat, cfg.NotifyTimeout, logger)
	notifier := poller.Fanout{sink}

	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaAlertTopic != "" {
		kafkaWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		notifier = append(notifier, kafkaWriter)
		logger.Info("kafka alert fan-out enabled", "topic", cfg.KafkaAlertTopic)
	}

	p := poller.New(source, store, notifier, cfg.Policy, poller.Options{
		Interval: cfg.PollInterval,
		DedupTTL: cfg.DedupTTL,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start poll loop.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("dedup store close error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newStore builds the dedup store. With REDIS_URL set the backend must be
// reachable at boot so a misconfigured deployment fails fast; without it the
// in-memory store is used and suppression state is lost on restart.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dedup.Store, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using in-memory dedup store")
		return dedup.NewMemory(), nil
	}

	store, err := dedup.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	logger.Info("redis dedup store connected")
	return store, nil
}

func newSource(cfg *config.Config, logger *slog.Logger) poller.Source {
	switch cfg.Source {
	case config.SourceTMDWeb:
		pageURL := cfg.SourceURL
		if pageURL == "" {
			pageURL = tmdweb.DefaultPageURL
		}
		return tmdweb.NewClient(pageURL, cfg.FetchTimeout, logger)
	default:
		baseURL := cfg.SourceURL
		if baseURL == "" {
			baseURL = seismicportal.DefaultBaseURL
		}
		return seismicportal.NewClient(baseURL, cfg.FetchTimeout, cfg.FeedWindow, cfg.Policy.Bounds, logger)
	}
}
