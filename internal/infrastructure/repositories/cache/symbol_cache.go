package cache

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Nombres de los blobs persistidos
const (
	BlobAssets     = "crypto_symbols.json"
	BlobCurrencies = "fiat_symbols.json"
	BlobMetadata   = "crypto_info.json"
)

// NoExpiration marca un blob que nunca expira
const NoExpiration time.Duration = 0

const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultCorrupt = "corrupt"
	resultError   = "error"
	resultSaved   = "saved"
)

type assetsBlob struct {
	Symbols []string `json:"symbols"`
	Slugs   []string `json:"slugs"`
}

type currenciesBlob struct {
	Symbols []string `json:"symbols"`
}

// SymbolCache es la capa tipada sobre un BlobStore.
// Cualquier fallo de lectura o decodificación se reporta como ErrBlobMissing.
type SymbolCache struct {
	store            interfaces.BlobStore
	symbolsMaxAge    time.Duration
	currenciesMaxAge time.Duration
	metadataMaxAge   time.Duration

	// un único escritor del blob de metadata por proceso
	mergeMu sync.Mutex
}

var _ interfaces.SymbolCache = (*SymbolCache)(nil)

// NewSymbolCache crea el cache con las políticas de expiración configuradas
func NewSymbolCache(store interfaces.BlobStore, cfg config.CacheConfig) *SymbolCache {
	return &SymbolCache{
		store:            store,
		symbolsMaxAge:    cfg.SymbolsMaxAge,
		currenciesMaxAge: cfg.CurrenciesMaxAge,
		metadataMaxAge:   cfg.MetadataMaxAge,
	}
}

// LoadAssets lee la tabla de símbolos y slugs
func (c *SymbolCache) LoadAssets(ctx context.Context) (*entities.SymbolTable, error) {
	blob, err := load[assetsBlob](ctx, c.store, BlobAssets, c.symbolsMaxAge)
	if err != nil {
		return nil, err
	}

	table, err := entities.NewSymbolTable(blob.Symbols, blob.Slugs)
	if err != nil {
		logging.Cache().CacheError(ctx, logging.CacheOpLoad, BlobAssets, err)
		metrics.RecordCacheOperation(BlobAssets, resultCorrupt)
		return nil, fmt.Errorf("%w: %v", entities.ErrBlobMissing, err)
	}
	return table, nil
}

// SaveAssets persiste la tabla de símbolos y slugs
func (c *SymbolCache) SaveAssets(ctx context.Context, table *entities.SymbolTable) error {
	return save(ctx, c.store, BlobAssets, assetsBlob{
		Symbols: table.Symbols(),
		Slugs:   table.Slugs(),
	})
}

// LoadCurrencies lee la tabla de monedas fiat
func (c *SymbolCache) LoadCurrencies(ctx context.Context) (*entities.CurrencyTable, error) {
	blob, err := load[currenciesBlob](ctx, c.store, BlobCurrencies, c.currenciesMaxAge)
	if err != nil {
		return nil, err
	}
	return entities.NewCurrencyTable(blob.Symbols), nil
}

// SaveCurrencies persiste la tabla de monedas fiat
func (c *SymbolCache) SaveCurrencies(ctx context.Context, table *entities.CurrencyTable) error {
	return save(ctx, c.store, BlobCurrencies, currenciesBlob{Symbols: table.Symbols()})
}

// LoadMetadata lee el mapa de metadata por símbolo
func (c *SymbolCache) LoadMetadata(ctx context.Context) (entities.AssetMetadata, error) {
	md, err := load[entities.AssetMetadata](ctx, c.store, BlobMetadata, c.metadataMaxAge)
	if err != nil {
		return nil, err
	}
	if md == nil {
		md = entities.AssetMetadata{}
	}
	metrics.UpdateMetadataEntries(len(md))
	return md, nil
}

// SaveMetadata reemplaza el mapa de metadata completo
func (c *SymbolCache) SaveMetadata(ctx context.Context, md entities.AssetMetadata) error {
	c.mergeMu.Lock()
	defer c.mergeMu.Unlock()

	if err := save(ctx, c.store, BlobMetadata, md); err != nil {
		return err
	}
	metrics.UpdateMetadataEntries(len(md))
	return nil
}

// SaveMetadataBlob valida y guarda un blob de metadata ya serializado (restore del backup)
func (c *SymbolCache) SaveMetadataBlob(ctx context.Context, data []byte) (int, error) {
	var md entities.AssetMetadata
	if err := json.Unmarshal(data, &md); err != nil {
		return 0, fmt.Errorf("invalid metadata blob: %w", err)
	}
	if err := c.SaveMetadata(ctx, md); err != nil {
		return 0, err
	}
	return len(md), nil
}

// MergeMetadata agrega o reemplaza entradas sobre el mapa guardado y reescribe el blob.
// Un blob faltante o corrupto se toma como mapa vacío. Retorna el mapa resultante.
func (c *SymbolCache) MergeMetadata(ctx context.Context, fresh entities.AssetMetadata) (entities.AssetMetadata, error) {
	c.mergeMu.Lock()
	defer c.mergeMu.Unlock()

	current, err := load[entities.AssetMetadata](ctx, c.store, BlobMetadata, c.metadataMaxAge)
	if err != nil || current == nil {
		current = entities.AssetMetadata{}
	}

	for symbol, info := range fresh {
		current[symbol] = info
	}

	if err := save(ctx, c.store, BlobMetadata, current); err != nil {
		return current, err
	}

	logging.Cache().Debug(ctx, "Metadata merged", logging.Fields{
		logging.FieldCacheOperation: logging.CacheOpMerge,
		logging.FieldEntries:        len(current),
		"added":                     len(fresh),
	})
	metrics.UpdateMetadataEntries(len(current))
	return current, nil
}

func load[T any](ctx context.Context, store interfaces.BlobStore, name string, maxAge time.Duration) (T, error) {
	var out T

	data, err := store.Load(ctx, name, maxAge)
	if err != nil {
		if errors.Is(err, entities.ErrBlobMissing) {
			logging.Cache().Miss(ctx, name, logging.CacheOpLoad)
			metrics.RecordCacheOperation(name, resultMiss)
			return out, entities.ErrBlobMissing
		}
		logging.Cache().CacheError(ctx, logging.CacheOpLoad, name, err)
		metrics.RecordCacheOperation(name, resultError)
		return out, fmt.Errorf("%w: %v", entities.ErrBlobMissing, err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		logging.Cache().CacheError(ctx, logging.CacheOpLoad, name, err)
		metrics.RecordCacheOperation(name, resultCorrupt)
		var zero T
		return zero, fmt.Errorf("%w: %v", entities.ErrBlobMissing, err)
	}

	logging.Cache().Hit(ctx, name, logging.CacheOpLoad)
	metrics.RecordCacheOperation(name, resultHit)
	return out, nil
}

func save(ctx context.Context, store interfaces.BlobStore, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode blob %s: %w", name, err)
	}

	if err := store.Save(ctx, name, data); err != nil {
		logging.Cache().CacheError(ctx, logging.CacheOpSave, name, err)
		metrics.RecordCacheOperation(name, resultError)
		return err
	}

	logging.Cache().Set(ctx, name, len(data))
	metrics.RecordCacheOperation(name, resultSaved)
	return nil
}
