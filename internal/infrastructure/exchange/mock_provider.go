package exchange

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/logging"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

type mockAsset struct {
	symbol   string
	name     string
	slug     string
	website  string
	usdPrice float64
}

// MockProvider implementa MarketDataProvider con datos falsos pero realistas.
// Sirve para desarrollo sin API key (market_data.mock).
type MockProvider struct {
	mu       sync.RWMutex
	assets   []mockAsset
	fxRates  map[string]float64 // unidades de moneda por 1 USD
	variance float64            // variación porcentual para simular volatilidad
}

// NewMockProvider crea una nueva instancia del proveedor falso
func NewMockProvider() *MockProvider {
	return &MockProvider{
		assets: []mockAsset{
			{"BTC", "Bitcoin", "bitcoin", "https://bitcoin.org/", 65000.0},
			{"ETH", "Ethereum", "ethereum", "https://www.ethereum.org/", 3200.0},
			{"LTC", "Litecoin", "litecoin", "https://litecoin.org/", 95.0},
			{"XRP", "XRP", "xrp", "https://xrpl.org/", 0.52},
			{"DOGE", "Dogecoin", "dogecoin", "http://dogecoin.com/", 0.00012345},
			{"SOL", "Solana", "solana", "https://solana.com", 145.0},
		},
		fxRates: map[string]float64{
			"USD": 1.0,
			"EUR": 0.92,
			"CHF": 0.89,
			"GBP": 0.78,
			"JPY": 151.3,
		},
		variance: 0.02,
	}
}

// NewMockFactory retorna una fábrica que comparte un único MockProvider entre keys
func NewMockFactory() interfaces.MarketDataProviderFactory {
	provider := NewMockProvider()
	return func(string) interfaces.MarketDataProvider {
		return provider
	}
}

func (m *MockProvider) ListAssets(ctx context.Context) (*entities.SymbolTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, len(m.assets))
	slugs := make([]string, len(m.assets))
	for i, a := range m.assets {
		symbols[i] = a.symbol
		slugs[i] = a.slug
	}
	return entities.NewSymbolTable(symbols, slugs)
}

func (m *MockProvider) ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.fxRates))
	for symbol := range m.fxRates {
		symbols = append(symbols, symbol)
	}
	return entities.NewCurrencyTable(symbols), nil
}

func (m *MockProvider) GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error) {
	metadata := make(entities.AssetMetadata, len(symbols))
	for _, symbol := range symbols {
		a, ok := m.find(symbol)
		if !ok {
			continue
		}
		metadata[a.symbol] = entities.AssetInfo{
			Symbol:   a.symbol,
			Name:     a.name,
			Slug:     a.slug,
			Websites: []string{a.website},
		}
	}
	return metadata, nil
}

// GetQuote retorna un precio falso con variación aleatoria
func (m *MockProvider) GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error) {
	a, ok := m.find(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrSymbolNotFound, strings.ToUpper(symbol))
	}

	currency = strings.ToUpper(currency)
	m.mu.RLock()
	rate, ok := m.fxRates[currency]
	variance := m.variance
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported currency: %s", currency)
	}

	variation := (rand.Float64()*2 - 1) * variance
	price := a.usdPrice * rate * (1 + variation)

	logging.Debug(ctx, "MockProvider: Generated mock quote", logging.Fields{
		logging.FieldSymbol:   a.symbol,
		logging.FieldCurrency: currency,
		logging.FieldPrice:    price,
		"variation":           fmt.Sprintf("%.2f%%", variation*100),
	})

	return &entities.Quote{
		Symbol:           a.symbol,
		Name:             a.name,
		Slug:             a.slug,
		Currency:         currency,
		Price:            price,
		Volume24h:        price * 1.5e6,
		PercentChange24h: variation * 100,
		MarketCap:        price * 2e7,
		LastUpdated:      time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}

// GetKeyUsage reporta una key con margen de sobra
func (m *MockProvider) GetKeyUsage(ctx context.Context) (*entities.KeyUsage, error) {
	return &entities.KeyUsage{
		CreditLimitDaily:   333,
		CreditLimitMonthly: 10000,
		RateLimitMinute:    30,
		MinuteRequestsLeft: 30,
		DayCreditsLeft:     333,
		MonthCreditsLeft:   10000,
	}, nil
}

// AddAsset agrega un activo con precio base en USD (útil para testing)
func (m *MockProvider) AddAsset(symbol, name, slug string, usdPrice float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = append(m.assets, mockAsset{symbol: strings.ToUpper(symbol), name: name, slug: slug, usdPrice: usdPrice})
}

// SetVariance configura la variación porcentual para volatilidad
func (m *MockProvider) SetVariance(variance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variance = variance
}

func (m *MockProvider) find(symbol string) (mockAsset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	symbol = strings.ToUpper(symbol)
	for _, a := range m.assets {
		if a.symbol == symbol {
			return a, true
		}
	}
	return mockAsset{}, false
}
