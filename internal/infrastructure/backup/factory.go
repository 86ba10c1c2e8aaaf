package backup

import (
	"context"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"fmt"
	"time"
)

// Backend represents the type of object store implementation
type Backend string

const (
	BackendS3     Backend = "s3"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// NewObjectStore creates the remote backup store based on configuration
func NewObjectStore(ctx context.Context, cfg config.BackupConfig) (interfaces.ObjectStore, error) {
	switch Backend(cfg.Backend) {
	case BackendS3:
		logging.Info(ctx, "Creating S3 backup store", logging.Fields{
			"type":     "s3",
			"bucket":   cfg.S3.Bucket,
			"region":   cfg.S3.Region,
			"endpoint": cfg.S3.Endpoint,
		})
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil

	case BackendRedis:
		logging.Info(ctx, "Creating Redis backup store", logging.Fields{
			"type":     "redis",
			"addr":     cfg.Redis.Addr,
			"database": cfg.Redis.DB,
		})
		return createRedisStore(ctx, cfg.Redis)

	case BackendMemory:
		logging.Info(ctx, "Creating memory backup store", logging.Fields{
			"type": "memory",
		})
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}

func createRedisStore(ctx context.Context, cfg config.RedisConfig) (interfaces.ObjectStore, error) {
	store := NewRedisStore(cfg.Addr, cfg.Password, cfg.DB)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return store, nil
}
