package sink

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
)

const DefaultTopicPrefix = "oura"

// MQTTClient is the subset of the common MQTT client used for publishing.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher publishes messages to <prefix>/<topic>.
type MQTTPublisher struct {
	client MQTTClient
	prefix string
	qos    byte
	logger *zap.Logger
}

func NewMQTTPublisher(client MQTTClient, prefix string, qos byte, logger *zap.Logger) *MQTTPublisher {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &MQTTPublisher{
		client: client,
		prefix: prefix,
		qos:    qos,
		logger: logger,
	}
}

func (p *MQTTPublisher) Name() string {
	return "mqtt"
}

// Publish sends every message, continuing past failures. The returned error
// joins all failures.
func (p *MQTTPublisher) Publish(ctx context.Context, messages []exporter.PubSubMessage) error {
	var errs []error
	for _, m := range messages {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		topic := p.prefix + "/" + m.Topic
		if err := p.client.Publish(topic, p.qos, false, []byte(m.Payload)); err != nil {
			errs = append(errs, fmt.Errorf("topic %s: %w", topic, err))
		}
	}

	if len(errs) > 0 {
		p.logger.Warn("Some MQTT messages failed",
			zap.Int("failed", len(errs)),
			zap.Int("total", len(messages)),
		)
	}
	return errors.Join(errs...)
}
