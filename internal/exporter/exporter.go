package exporter

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lordthorzonus/oura-api-exporter/internal/metrics"
	"github.com/lordthorzonus/oura-api-exporter/internal/models"
)

const DefaultBatchSize = 100

// TimeSeriesWriter persists points to a time-series store.
type TimeSeriesWriter interface {
	Name() string
	WriteBatch(ctx context.Context, points []TimeSeriesPoint) error
}

// Publisher delivers messages to a pub/sub broker.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, messages []PubSubMessage) error
}

// Exporter fans records out to the configured sinks.
type Exporter struct {
	writer     TimeSeriesWriter
	publishers []Publisher
	batchSize  int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewExporter creates an Exporter. A nil writer drops points; an empty
// publisher list drops messages.
func NewExporter(writer TimeSeriesWriter, publishers []Publisher, batchSize int, m *metrics.Metrics, logger *zap.Logger) *Exporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Exporter{
		writer:     writer,
		publishers: publishers,
		batchSize:  batchSize,
		metrics:    m,
		logger:     logger,
	}
}

// Export converts records to items and dispatches them in batches. All
// batches run concurrently; inside a batch the points and the messages are
// written concurrently. Sink failures are logged and do not stop the other
// batches.
func (e *Exporter) Export(ctx context.Context, records []models.Record) {
	items := e.collectItems(records)
	if len(items) == 0 {
		return
	}

	var g errgroup.Group
	for start := 0; start < len(items); start += e.batchSize {
		end := start + e.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		g.Go(func() error {
			e.dispatchBatch(ctx, batch)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Exporter) collectItems(records []models.Record) []ExportItem {
	var items []ExportItem
	for _, r := range records {
		if r.Kind == models.KindError {
			e.logger.Error("Error while polling Oura data",
				zap.String("person", r.Error.PersonName),
				zap.String("category", string(r.Error.Category)),
				zap.String("message", r.Error.Message),
			)
			continue
		}

		recordItems, err := ItemsFromRecord(r)
		if err != nil {
			var serErr *SerializationError
			if errors.As(err, &serErr) {
				e.logger.Warn("Dropping pub/sub message",
					zap.String("person", r.Person()),
					zap.String("kind", r.Kind.String()),
					zap.Error(err),
				)
			}
		}
		items = append(items, recordItems...)
	}
	return items
}

func splitItems(batch []ExportItem) ([]TimeSeriesPoint, []PubSubMessage) {
	var (
		points   []TimeSeriesPoint
		messages []PubSubMessage
	)
	for _, item := range batch {
		switch item.Kind {
		case ItemTimeSeriesPoint:
			points = append(points, *item.Point)
		case ItemPubSubMessage:
			messages = append(messages, *item.Message)
		}
	}
	return points, messages
}

func (e *Exporter) dispatchBatch(ctx context.Context, batch []ExportItem) {
	points, messages := splitItems(batch)

	var g errgroup.Group
	if len(points) > 0 {
		if e.writer == nil {
			e.logger.Debug("No time-series sink configured, dropping points", zap.Int("count", len(points)))
		} else {
			g.Go(func() error {
				e.write(ctx, points)
				return nil
			})
		}
	}
	if len(messages) > 0 {
		if len(e.publishers) == 0 {
			e.logger.Debug("No pub/sub sink configured, dropping messages", zap.Int("count", len(messages)))
		}
		for _, pub := range e.publishers {
			pub := pub
			g.Go(func() error {
				e.publish(ctx, pub, messages)
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (e *Exporter) write(ctx context.Context, points []TimeSeriesPoint) {
	started := time.Now()
	err := e.writer.WriteBatch(ctx, points)
	e.metrics.ObserveSinkWrite(e.writer.Name(), len(points), time.Since(started), err)
	if err != nil {
		e.logger.Error("Failed to write time-series batch",
			zap.String("sink", e.writer.Name()),
			zap.Int("points", len(points)),
			zap.Error(err),
		)
	}
}

func (e *Exporter) publish(ctx context.Context, pub Publisher, messages []PubSubMessage) {
	started := time.Now()
	err := pub.Publish(ctx, messages)
	e.metrics.ObserveSinkWrite(pub.Name(), len(messages), time.Since(started), err)
	if err != nil {
		e.logger.Error("Failed to publish messages",
			zap.String("sink", pub.Name()),
			zap.Int("messages", len(messages)),
			zap.Error(err),
		)
	}
}
