package sink

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	commonredis "github.com/lordthorzonus/oura-api-exporter/internal/common/redis"
	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
)

const DefaultStreamPrefix = "oura"

// StreamPublisher appends messages to the Redis stream <prefix>:<topic>.
type StreamPublisher struct {
	client *commonredis.Client
	prefix string
	maxLen int64
	logger *zap.Logger
}

func NewStreamPublisher(client *commonredis.Client, prefix string, maxLen int64, logger *zap.Logger) *StreamPublisher {
	if prefix == "" {
		prefix = DefaultStreamPrefix
	}
	return &StreamPublisher{
		client: client,
		prefix: prefix,
		maxLen: maxLen,
		logger: logger,
	}
}

func (p *StreamPublisher) Name() string {
	return "redis_stream"
}

func (p *StreamPublisher) Publish(ctx context.Context, messages []exporter.PubSubMessage) error {
	var errs []error
	for _, m := range messages {
		stream := p.prefix + ":" + m.Topic
		if _, err := commonredis.PublishPayloadToStream(ctx, p.client, stream, p.maxLen, m.Payload); err != nil {
			errs = append(errs, fmt.Errorf("stream %s: %w", stream, err))
			if ctx.Err() != nil {
				break
			}
		}
	}

	if len(errs) > 0 {
		p.logger.Warn("Some stream messages failed",
			zap.Int("failed", len(errs)),
			zap.Int("total", len(messages)),
		)
	}
	return errors.Join(errs...)
}
