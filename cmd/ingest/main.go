// Command ingest runs the ceilometer ingest service: it scans a spool
// directory for raw Vaisala ceilometer files, decodes and screens them, and
// publishes the screened products to a Kafka topic. Health, readiness and
// Prometheus metrics are served over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/lidarlab/ceilo-ingest/internal/adapter/http"
	kafkaadapter "github.com/lidarlab/ceilo-ingest/internal/adapter/kafka"
	"github.com/lidarlab/ceilo-ingest/internal/adapter/spool"
	"github.com/lidarlab/ceilo-ingest/internal/config"
	"github.com/lidarlab/ceilo-ingest/internal/observability"
	"github.com/lidarlab/ceilo-ingest/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor, err := spool.NewExtractor(cfg, logger)
	if err != nil {
		logger.Error("failed to set up spool", "error", err)
		os.Exit(1)
	}
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(cfg.Site, logger, metrics)

	p := pipeline.New(extractor, transformer, writer, logger, metrics, cfg.BatchSize, cfg.ScanInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
