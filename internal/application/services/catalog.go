package services

import (
	"crypto-price-bot/internal/domain/entities"
	"strings"
	"sync"
)

// Catalog guarda en memoria las tablas de símbolos y la metadata conocida.
// Lo comparten los handlers de chat y las tareas de mantenimiento.
type Catalog struct {
	mu         sync.RWMutex
	assets     *entities.SymbolTable
	currencies *entities.CurrencyTable
	metadata   entities.AssetMetadata
}

// NewCatalog crea un catálogo vacío
func NewCatalog() *Catalog {
	return &Catalog{metadata: entities.AssetMetadata{}}
}

// Assets retorna la tabla de símbolos, nil si no está disponible
func (c *Catalog) Assets() *entities.SymbolTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assets
}

func (c *Catalog) SetAssets(table *entities.SymbolTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets = table
}

// Currencies retorna la tabla de monedas, nil si no está disponible
func (c *Catalog) Currencies() *entities.CurrencyTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currencies
}

func (c *Catalog) SetCurrencies(table *entities.CurrencyTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currencies = table
}

// AssetInfo busca la metadata de un símbolo ignorando mayúsculas
func (c *Catalog) AssetInfo(symbol string) (entities.AssetInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.metadata[strings.ToUpper(symbol)]
	return info, ok
}

// PutAssetInfo agrega o reemplaza la metadata de un símbolo
func (c *Catalog) PutAssetInfo(symbol string, info entities.AssetInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[strings.ToUpper(symbol)] = info
}

// ReplaceMetadata reemplaza toda la metadata (carga inicial)
func (c *Catalog) ReplaceMetadata(md entities.AssetMetadata) {
	copied := make(entities.AssetMetadata, len(md))
	for k, v := range md {
		copied[strings.ToUpper(k)] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata = copied
}

// MetadataSnapshot retorna una copia de la metadata
func (c *Catalog) MetadataSnapshot() entities.AssetMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(entities.AssetMetadata, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}

// MetadataCount retorna la cantidad de símbolos con metadata
func (c *Catalog) MetadataCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metadata)
}
