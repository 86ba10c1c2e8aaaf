package backup

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient es el subconjunto de go-redis que usa el store
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore guarda el respaldo como un string en Redis, sin expiración
type RedisStore struct {
	client redisClient
}

// NewRedisStore creates a new Redis object store
func NewRedisStore(addr, password string, db int) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewRedisStoreWithClient creates a new Redis object store with an existing client
func NewRedisStoreWithClient(client redisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get backup %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisStore) PutObject(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to put backup %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis connection is alive
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
