package interfaces

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"time"
)

// BlobStore persiste blobs con nombre y decide su frescura por fecha de modificación.
// maxAge == 0 significa que el blob nunca expira.
type BlobStore interface {
	// Load retorna entities.ErrBlobMissing si no existe o está vencido
	Load(ctx context.Context, name string, maxAge time.Duration) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// ObjectStore es el almacenamiento remoto del respaldo de metadata
type ObjectStore interface {
	// GetObject retorna entities.ErrObjectNotFound si la clave no existe
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte) error
}

// SymbolCache es la capa tipada del cache durable de símbolos y metadata.
// Los Load retornan entities.ErrBlobMissing ante blobs faltantes, vencidos o corruptos.
type SymbolCache interface {
	LoadAssets(ctx context.Context) (*entities.SymbolTable, error)
	SaveAssets(ctx context.Context, table *entities.SymbolTable) error
	LoadCurrencies(ctx context.Context) (*entities.CurrencyTable, error)
	SaveCurrencies(ctx context.Context, table *entities.CurrencyTable) error
	LoadMetadata(ctx context.Context) (entities.AssetMetadata, error)
	SaveMetadata(ctx context.Context, md entities.AssetMetadata) error
	// MergeMetadata agrega entradas al blob de metadata y retorna el mapa resultante
	MergeMetadata(ctx context.Context, fresh entities.AssetMetadata) (entities.AssetMetadata, error)
}

// MetadataSource expone una copia de la metadata conocida en memoria
type MetadataSource interface {
	MetadataSnapshot() entities.AssetMetadata
}
