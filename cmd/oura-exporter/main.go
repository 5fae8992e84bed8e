package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/common/logger"
	"github.com/lordthorzonus/oura-api-exporter/internal/config"
	"github.com/lordthorzonus/oura-api-exporter/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "oura-exporter")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting oura-exporter",
		zap.Int("persons", len(cfg.Persons)),
		zap.Duration("poller_interval", cfg.Poller.Interval),
		zap.Bool("influxdb", cfg.InfluxDB.Enabled()),
		zap.Bool("timescale", cfg.Timescale.Enabled()),
		zap.Bool("mqtt", cfg.MQTT.Enabled()),
		zap.Bool("redis_streams", cfg.Streams.Enabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exporterService, err := service.NewExporterService(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create exporter service", zap.Error(err))
	}

	go func() {
		if err := exporterService.Start(ctx); err != nil {
			zapLogger.Fatal("Failed to start exporter service", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	zapLogger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := exporterService.Stop(shutdownCtx); err != nil {
		zapLogger.Error("Error during shutdown", zap.Error(err))
	}

	zapLogger.Info("Service stopped")
}
