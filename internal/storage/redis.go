package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisMedium struct {
	client *redis.Client
}

func NewRedisMedium(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client}
}

func (m *RedisMedium) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := m.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores the value without expiry.
func (m *RedisMedium) Set(ctx context.Context, key string, value string) error {
	return m.client.Set(ctx, key, value, 0).Err()
}

func (m *RedisMedium) Delete(ctx context.Context, key string) error {
	return m.client.Del(ctx, key).Err()
}

func (m *RedisMedium) Close() error {
	return m.client.Close()
}
