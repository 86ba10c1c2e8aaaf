package cache

import (
	"context"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"fmt"
	"time"
)

// Backend represents the type of blob store implementation
type Backend string

const (
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// NewBlobStore creates a blob store based on configuration
func NewBlobStore(cfg config.CacheConfig) (interfaces.BlobStore, error) {
	ctx := context.Background()

	switch Backend(cfg.Backend) {
	case BackendFile:
		logging.Info(ctx, "Creating file blob store", logging.Fields{
			"type": "file",
			"dir":  cfg.Dir,
		})
		store, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil

	case BackendRedis:
		logging.Info(ctx, "Creating Redis blob store", logging.Fields{
			"type":     "redis",
			"addr":     cfg.Redis.Addr,
			"database": cfg.Redis.DB,
		})
		return createRedisStore(cfg)

	case BackendMemory:
		logging.Info(ctx, "Creating memory blob store", logging.Fields{
			"type": "memory",
		})
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}

// createRedisStore creates the store and tests the Redis connection
func createRedisStore(cfg config.CacheConfig) (interfaces.BlobStore, error) {
	store := NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.KeyPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
	}

	logging.Info(context.Background(), "Redis connection established successfully", logging.Fields{
		"addr":     cfg.Redis.Addr,
		"database": cfg.Redis.DB,
	})
	return store, nil
}
