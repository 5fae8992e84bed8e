package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCursorStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisCursorStore(client, "")
	ctx := context.Background()

	_, err := store.Get(ctx, "alice")
	assert.ErrorIs(t, err, ErrNoCursor)

	ts := time.Date(2023, 1, 1, 10, 0, 1, 0, time.FixedZone("EET", 2*60*60))
	require.NoError(t, store.Set(ctx, "alice", ts))

	raw, err := mr.Get("oura:cursor:alice")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01T08:00:01Z", raw)

	got, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestRedisCursorStore_InvalidValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("custom:bob", "not-a-time"))

	store := NewRedisCursorStore(client, "custom:")
	_, err := store.Get(context.Background(), "bob")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCursor)
}

func TestMemoryCursorStore(t *testing.T) {
	store := NewMemoryCursorStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "alice")
	assert.ErrorIs(t, err, ErrNoCursor)

	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, "alice", ts))

	got, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, ts, got)
}
