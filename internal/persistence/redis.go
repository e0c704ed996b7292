package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisKV backs the key-value layer with a Redis instance for deployments
// that already run one locally.
type RedisKV struct {
	client *redis.Client
}

// RedisOptions holds Redis connection values.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisKV connects to Redis using the provided options. An unreachable
// server is logged but not fatal; operations will surface errors later.
func NewRedisKV(opts RedisOptions, logger *zap.Logger) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisKV{client: client}
}

func (kv *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := kv.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return kv.client.Set(ctx, key, value, 0).Err()
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	return kv.client.Del(ctx, key).Err()
}

// Close closes the client.
func (kv *RedisKV) Close() error {
	if kv == nil || kv.client == nil {
		return nil
	}
	return kv.client.Close()
}

// Ping verifies Redis connectivity.
func (kv *RedisKV) Ping(ctx context.Context) error {
	if kv == nil || kv.client == nil {
		return errors.New("redis client not configured")
	}
	return kv.client.Ping(ctx).Err()
}
