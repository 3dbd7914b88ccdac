package state

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds the snapshot when no key is configured.
const DefaultRedisKey = "books-contract-tests:environment"

// RedisBackend keeps the snapshot in one Redis hash. Save deletes and rewrites the hash inside
// MULTI/EXEC.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend creates a backend for the Redis server at addr.
func NewRedisBackend(addr, password string, db int, key string) *RedisBackend {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisBackendWithClient(rdb, key)
}

func NewRedisBackendWithClient(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{client: client, key: key}
}

func (b *RedisBackend) Load(ctx context.Context) (map[string]string, error) {
	entries, err := b.client.HGetAll(ctx, b.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HGETALL %s: %w", b.key, err)
	}
	return entries, nil
}

func (b *RedisBackend) Save(ctx context.Context, entries map[string]string) error {
	values := make(map[string]interface{}, len(entries))
	for k, v := range entries {
		values[k] = v
	}
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.key)
		if len(values) > 0 {
			pipe.HSet(ctx, b.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", b.key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
