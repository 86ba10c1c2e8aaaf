package interfaces

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
)

// MarketDataProvider es el cliente del proveedor de datos de mercado,
// atado a una única API key
type MarketDataProvider interface {
	ListAssets(ctx context.Context) (*entities.SymbolTable, error)
	ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error)
	// GetMetadata pide la metadata de varios símbolos en una sola llamada
	GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error)
	GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error)
	GetKeyUsage(ctx context.Context) (*entities.KeyUsage, error)
}

// MarketDataProviderFactory crea un cliente para la API key indicada
type MarketDataProviderFactory func(apiKey string) MarketDataProvider

// MarketData es la vista que los casos de uso tienen del gateway con cuota
type MarketData interface {
	ListAssets(ctx context.Context) (*entities.SymbolTable, error)
	ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error)
	GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error)
	GetAssetInfo(ctx context.Context, symbol string) (*entities.AssetInfo, error)
	GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error)
	KeyUsage(ctx context.Context) (*entities.KeyUsage, error)
	Exhausted() bool
}

// QuotaReporter expone el estado de las API keys para diagnóstico
type QuotaReporter interface {
	ActiveKeyIndex() int
	KeyCount() int
}
