package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// PublishToStream appends one entry to stream with XADD. maxLen > 0 caps the
// stream length approximately.
func PublishToStream(ctx context.Context, client *redis.Client, stream string, maxLen int64, values map[string]interface{}) (string, error) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if maxLen > 0 {
		args.MaxLenApprox = maxLen
	}

	return client.XAdd(ctx, args).Result()
}

// PublishPayloadToStream publishes an already encoded JSON payload under the
// "data" field, alongside the publish time in unix seconds.
func PublishPayloadToStream(ctx context.Context, client *redis.Client, stream string, maxLen int64, payload string) (string, error) {
	return PublishToStream(ctx, client, stream, maxLen, map[string]interface{}{
		"data":      payload,
		"timestamp": time.Now().Unix(),
	})
}
