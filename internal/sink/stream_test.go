package sink

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
)

func TestStreamPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pub := NewStreamPublisher(client, "", 0, zap.NewNop())
	assert.Equal(t, "redis_stream", pub.Name())

	ctx := context.Background()
	err := pub.Publish(ctx, []exporter.PubSubMessage{
		{Topic: "heart_rate", Payload: `{"bpm":60}`},
		{Topic: "heart_rate", Payload: `{"bpm":61}`},
	})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, "oura:heart_rate", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, `{"bpm":60}`, entries[0].Values["data"])
	assert.Equal(t, `{"bpm":61}`, entries[1].Values["data"])
	assert.NotEmpty(t, entries[0].Values["timestamp"])
}

func TestStreamPublisher_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	pub := NewStreamPublisher(client, "home", 10, zap.NewNop())
	err := pub.Publish(context.Background(), []exporter.PubSubMessage{{Topic: "heart_rate", Payload: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home:heart_rate")
}
