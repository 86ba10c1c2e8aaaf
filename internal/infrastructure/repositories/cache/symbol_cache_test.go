package cache

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/infrastructure/config"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSymbolCache(t *testing.T) (*SymbolCache, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	cfg := config.CacheConfig{
		SymbolsMaxAge:    24 * time.Hour,
		CurrenciesMaxAge: 24 * time.Hour,
		MetadataMaxAge:   NoExpiration,
	}
	return NewSymbolCache(store, cfg), store
}

// failingStore falla siempre al guardar
type failingStore struct {
	*MemoryStore
}

func (f failingStore) Save(ctx context.Context, name string, data []byte) error {
	return errors.New("disk full")
}

// ===== CASOS DE ÉXITO =====

func TestSymbolCache_AssetsRoundTrip(t *testing.T) {
	c, _ := newTestSymbolCache(t)
	ctx := context.Background()

	table, err := entities.NewSymbolTable([]string{"BTC", "ETH"}, []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.NoError(t, c.SaveAssets(ctx, table))

	got, err := c.LoadAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	slug, ok := got.Slug("eth")
	assert.True(t, ok)
	assert.Equal(t, "ethereum", slug)
}

func TestSymbolCache_CurrenciesRoundTrip(t *testing.T) {
	c, _ := newTestSymbolCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveCurrencies(ctx, entities.NewCurrencyTable([]string{"USD", "EUR"})))

	got, err := c.LoadCurrencies(ctx)
	require.NoError(t, err)
	assert.True(t, got.Contains("eur"))
	assert.False(t, got.Contains("JPY"))
}

func TestSymbolCache_MergeMetadata(t *testing.T) {
	c, _ := newTestSymbolCache(t)
	ctx := context.Background()

	_, err := c.MergeMetadata(ctx, entities.AssetMetadata{
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Slug: "bitcoin"},
	})
	require.NoError(t, err)

	merged, err := c.MergeMetadata(ctx, entities.AssetMetadata{
		"ETH": {Symbol: "ETH", Name: "Ethereum", Slug: "ethereum"},
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Slug: "bitcoin", Websites: []string{"https://bitcoin.org/"}},
	})
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	loaded, err := c.LoadMetadata(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "https://bitcoin.org/", loaded["BTC"].ProjectURL())
}

func TestSymbolCache_MergeMetadata_Concurrent(t *testing.T) {
	c, _ := newTestSymbolCache(t)
	ctx := context.Background()
	symbols := []string{"BTC", "ETH", "LTC", "XRP", "SOL", "ADA", "DOT", "DOGE"}

	var wg sync.WaitGroup
	for _, s := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			_, _ = c.MergeMetadata(ctx, entities.AssetMetadata{symbol: {Symbol: symbol}})
		}(s)
	}
	wg.Wait()

	loaded, err := c.LoadMetadata(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, len(symbols))
}

func TestSymbolCache_SaveMetadataBlob(t *testing.T) {
	c, _ := newTestSymbolCache(t)
	ctx := context.Background()

	n, err := c.SaveMetadataBlob(ctx, []byte(`{"BTC":{"symbol":"BTC","name":"Bitcoin","slug":"bitcoin"}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	loaded, err := c.LoadMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", loaded["BTC"].Name)
}

// ===== CASOS DE ERROR =====

func TestSymbolCache_CorruptBlobIsMiss(t *testing.T) {
	c, store := newTestSymbolCache(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, BlobAssets, []byte("not json")))
	require.NoError(t, store.Save(ctx, BlobMetadata, []byte("{broken")))

	_, err := c.LoadAssets(ctx)
	assert.ErrorIs(t, err, entities.ErrBlobMissing)

	_, err = c.LoadMetadata(ctx)
	assert.ErrorIs(t, err, entities.ErrBlobMissing)

	// el merge parte de un mapa vacío
	merged, err := c.MergeMetadata(ctx, entities.AssetMetadata{"BTC": {Symbol: "BTC"}})
	require.NoError(t, err)
	assert.Len(t, merged, 1)
}

func TestSymbolCache_MisalignedAssetsIsMiss(t *testing.T) {
	c, store := newTestSymbolCache(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, BlobAssets, []byte(`{"symbols":["BTC","ETH"],"slugs":["bitcoin"]}`)))

	_, err := c.LoadAssets(ctx)
	assert.ErrorIs(t, err, entities.ErrBlobMissing)
}

func TestSymbolCache_StaleAssetsIsMiss(t *testing.T) {
	c, store := newTestSymbolCache(t)
	ctx := context.Background()

	table, err := entities.NewSymbolTable([]string{"BTC"}, []string{"bitcoin"})
	require.NoError(t, err)
	require.NoError(t, c.SaveAssets(ctx, table))
	store.Touch(BlobAssets, time.Now().Add(-25*time.Hour))

	_, err = c.LoadAssets(ctx)
	assert.ErrorIs(t, err, entities.ErrBlobMissing)
}

func TestSymbolCache_SaveFailure(t *testing.T) {
	store := failingStore{MemoryStore: NewMemoryStore()}
	c := NewSymbolCache(store, config.CacheConfig{})
	ctx := context.Background()

	merged, err := c.MergeMetadata(ctx, entities.AssetMetadata{"BTC": {Symbol: "BTC"}})
	assert.Error(t, err)
	assert.Len(t, merged, 1, "merged map is still returned for in-memory use")

	_, err = c.SaveMetadataBlob(ctx, []byte("nope"))
	assert.Error(t, err)
}
