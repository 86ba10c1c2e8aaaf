package backup

import (
	"context"
	"crypto-price-bot/internal/infrastructure/config"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewObjectStore(ctx, config.BackupConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "*backup.MemoryStore", fmt.Sprintf("%T", store))

	store, err = NewObjectStore(ctx, config.BackupConfig{
		Backend: "s3",
		S3:      config.S3Config{Bucket: "bot-bucket", Region: "eu-central-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "*backup.S3Store", fmt.Sprintf("%T", store))
}

func TestNewObjectStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewObjectStore(ctx, config.BackupConfig{Backend: "ftp"})
	assert.ErrorIs(t, err, ErrUnsupportedBackend)

	_, err = NewObjectStore(ctx, config.BackupConfig{Backend: "s3"})
	assert.ErrorIs(t, err, ErrMissingBucket)

	_, err = NewObjectStore(ctx, config.BackupConfig{
		Backend: "redis",
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
	})
	assert.Error(t, err)
}
