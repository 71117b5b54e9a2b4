package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-data-etl-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-data-etl-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-data-etl-service/internal/adapter/source"
	"github.com/couchcryptid/quake-data-etl-service/internal/config"
	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/couchcryptid/quake-data-etl-service/internal/observability"
	"github.com/couchcryptid/quake-data-etl-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := source.NewLoader(cfg.SourcePath, source.Options{
		SheetIndex: cfg.SourceSheet,
		Encoding:   cfg.SourceEncoding,
	})
	analyzer := pipeline.NewAnalyzer(
		cfg.HeaderDetector(),
		domain.NewClassifier(cfg.Keywords),
		cfg.RegionFilterMode,
		logger,
		metrics,
	)

	// Export sink is feature-flagged via KAFKA_ENABLED.
	var exporter pipeline.BatchExporter
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		exporter = writer
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	svc := pipeline.New(loader, analyzer, exporter, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing or unreadable source halts the service before it serves anything.
	if err := svc.Load(ctx); err != nil {
		logger.Error("failed to load source table",
			"path", cfg.SourcePath,
			"error", err,
			"message", domain.UserMessage(err),
		)
		os.Exit(1)
	}

	if cfg.SourceReloadSchedule != "" {
		scheduler, err := svc.ScheduleReload(ctx, cfg.SourceReloadSchedule)
		if err != nil {
			logger.Error("failed to schedule source reload", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
		logger.Info("source reload scheduled", "schedule", cfg.SourceReloadSchedule)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
