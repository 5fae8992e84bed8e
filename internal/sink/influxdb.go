package sink

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/common/config"
	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
)

// InfluxWriter writes points to an InfluxDB v2 bucket with second precision.
type InfluxWriter struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	logger   *zap.Logger
}

func NewInfluxWriter(cfg *config.InfluxDBConfig, logger *zap.Logger) *InfluxWriter {
	opts := influxdb2.DefaultOptions().
		SetPrecision(time.Second).
		SetHTTPRequestTimeout(30)
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	return &InfluxWriter{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Organization, cfg.Bucket),
		bucket:   cfg.Bucket,
		logger:   logger,
	}
}

func (w *InfluxWriter) Name() string {
	return "influxdb"
}

func (w *InfluxWriter) WriteBatch(ctx context.Context, points []exporter.TimeSeriesPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch := make([]*write.Point, 0, len(points))
	for _, p := range points {
		batch = append(batch, write.NewPoint(p.Measurement, p.Tags, p.Fields, p.Timestamp))
	}

	if err := w.writeAPI.WritePoint(ctx, batch...); err != nil {
		return fmt.Errorf("failed to write %d points to bucket %s: %w", len(batch), w.bucket, err)
	}

	w.logger.Debug("Wrote points to InfluxDB",
		zap.String("bucket", w.bucket),
		zap.Int("count", len(batch)),
	)
	return nil
}

// Ping checks that the server is reachable.
func (w *InfluxWriter) Ping(ctx context.Context) error {
	ok, err := w.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping InfluxDB: %w", err)
	}
	if !ok {
		return fmt.Errorf("InfluxDB is not ready")
	}
	return nil
}

func (w *InfluxWriter) Close() {
	w.client.Close()
}
