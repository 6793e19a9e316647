package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"calidad/internal/config"
)

// Redis backs the cache with a shared Redis instance. Errors are logged and
// treated as misses.
type Redis struct {
	client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("Cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Cache delete failed", "keys", keys, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
