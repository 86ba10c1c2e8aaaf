package cache

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData       = "data"
	fieldModifiedAt = "modified_at"
)

// redisClient es el subconjunto de go-redis que usa el store
type redisClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore guarda cada blob en un hash con el contenido y su fecha de modificación
type RedisStore struct {
	client redisClient
	prefix string
}

// NewRedisStore creates a new Redis blob store
func NewRedisStore(addr, password string, db int, prefix string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreWithClient(rdb, prefix)
}

// NewRedisStoreWithClient creates a new Redis blob store with an existing client
func NewRedisStoreWithClient(client redisClient, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Load lee el hash del blob y aplica maxAge sobre modified_at
func (r *RedisStore) Load(ctx context.Context, name string, maxAge time.Duration) ([]byte, error) {
	values, err := r.client.HGetAll(ctx, r.key(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", name, err)
	}

	data, ok := values[fieldData]
	if !ok {
		return nil, entities.ErrBlobMissing
	}

	if maxAge > 0 {
		nanos, err := strconv.ParseInt(values[fieldModifiedAt], 10, 64)
		if err != nil || isStale(time.Unix(0, nanos), maxAge) {
			return nil, entities.ErrBlobMissing
		}
	}

	return []byte(data), nil
}

// Save reemplaza contenido y fecha de modificación en una sola operación
func (r *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	err := r.client.HSet(ctx, r.key(name),
		fieldData, string(data),
		fieldModifiedAt, strconv.FormatInt(time.Now().UnixNano(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", name, err)
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

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}
