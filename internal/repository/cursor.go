package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNoCursor means no poll position has been stored for the person yet.
var ErrNoCursor = errors.New("no cursor stored")

const DefaultCursorKeyPrefix = "oura:cursor:"

// CursorStore persists the start of the next poll window per person.
type CursorStore interface {
	Get(ctx context.Context, person string) (time.Time, error)
	Set(ctx context.Context, person string, ts time.Time) error
}

// RedisCursorStore keeps cursors as RFC 3339 strings under <prefix><person>.
type RedisCursorStore struct {
	client *redis.Client
	prefix string
}

func NewRedisCursorStore(client *redis.Client, prefix string) *RedisCursorStore {
	if prefix == "" {
		prefix = DefaultCursorKeyPrefix
	}
	return &RedisCursorStore{client: client, prefix: prefix}
}

func (s *RedisCursorStore) Get(ctx context.Context, person string) (time.Time, error) {
	val, err := s.client.Get(ctx, s.prefix+person).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, ErrNoCursor
		}
		return time.Time{}, fmt.Errorf("failed to get cursor: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cursor %q for %s: %w", val, person, err)
	}
	return ts, nil
}

func (s *RedisCursorStore) Set(ctx context.Context, person string, ts time.Time) error {
	if err := s.client.Set(ctx, s.prefix+person, ts.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("failed to set cursor: %w", err)
	}
	return nil
}

// MemoryCursorStore keeps cursors for the lifetime of the process.
type MemoryCursorStore struct {
	mu      sync.RWMutex
	cursors map[string]time.Time
}

func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{cursors: make(map[string]time.Time)}
}

func (s *MemoryCursorStore) Get(_ context.Context, person string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.cursors[person]
	if !ok {
		return time.Time{}, ErrNoCursor
	}
	return ts, nil
}

func (s *MemoryCursorStore) Set(_ context.Context, person string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[person] = ts
	return nil
}
