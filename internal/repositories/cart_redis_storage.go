package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCartStorage keeps cart slots in Redis. Every save refreshes the slot TTL.
type RedisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStorage creates a new RedisCartStorage. A zero ttl keeps slots forever.
func NewRedisCartStorage(client *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{client: client, ttl: ttl}
}

// Load reads the slot stored under key.
func (s *RedisCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("key %s: %w", key, ErrSlotNotFound)
		}
		return nil, fmt.Errorf("failed to load cart slot %s: %w", key, err)
	}
	return data, nil
}

// Save writes the slot stored under key.
func (s *RedisCartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart slot %s: %w", key, err)
	}
	return nil
}
