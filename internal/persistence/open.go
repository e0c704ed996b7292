package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/config"
)

// Open constructs the key-value backend selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (KV, error) {
	switch cfg.Backend {
	case config.StorageBackendFile:
		return NewFileKV(cfg.FilePath, logger)
	case config.StorageBackendSQLite:
		return NewSQLiteKV(ctx, cfg.SQLitePath, logger)
	case config.StorageBackendRedis:
		return NewRedisKV(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
