package services

import (
	"context"
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/application/presenter"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/repositories/cache"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMarketData mock del gateway con cuota
type MockMarketData struct {
	mock.Mock
}

func (m *MockMarketData) ListAssets(ctx context.Context) (*entities.SymbolTable, error) {
	args := m.Called(ctx)
	var t *entities.SymbolTable
	if v := args.Get(0); v != nil {
		t = v.(*entities.SymbolTable)
	}
	return t, args.Error(1)
}

func (m *MockMarketData) ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error) {
	args := m.Called(ctx)
	var t *entities.CurrencyTable
	if v := args.Get(0); v != nil {
		t = v.(*entities.CurrencyTable)
	}
	return t, args.Error(1)
}

func (m *MockMarketData) GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error) {
	args := m.Called(ctx, symbols)
	var md entities.AssetMetadata
	if v := args.Get(0); v != nil {
		md = v.(entities.AssetMetadata)
	}
	return md, args.Error(1)
}

func (m *MockMarketData) GetAssetInfo(ctx context.Context, symbol string) (*entities.AssetInfo, error) {
	args := m.Called(ctx, symbol)
	var info *entities.AssetInfo
	if v := args.Get(0); v != nil {
		info = v.(*entities.AssetInfo)
	}
	return info, args.Error(1)
}

func (m *MockMarketData) GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error) {
	args := m.Called(ctx, symbol, currency)
	var q *entities.Quote
	if v := args.Get(0); v != nil {
		q = v.(*entities.Quote)
	}
	return q, args.Error(1)
}

func (m *MockMarketData) KeyUsage(ctx context.Context) (*entities.KeyUsage, error) {
	args := m.Called(ctx)
	var u *entities.KeyUsage
	if v := args.Get(0); v != nil {
		u = v.(*entities.KeyUsage)
	}
	return u, args.Error(1)
}

func (m *MockMarketData) Exhausted() bool {
	return m.Called().Bool(0)
}

type fakeQuota struct{ active, count int }

func (f fakeQuota) ActiveKeyIndex() int { return f.active }
func (f fakeQuota) KeyCount() int { return f.count }

type testEnv struct {
	market  *MockMarketData
	cache   *cache.SymbolCache
	catalog *Catalog
	service *BotService
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	symbolCache := cache.NewSymbolCache(cache.NewMemoryStore(), config.CacheConfig{
		SymbolsMaxAge:    24 * time.Hour,
		CurrenciesMaxAge: 24 * time.Hour,
	})
	market := &MockMarketData{}
	catalog := NewCatalog()
	renderer := presenter.NewRenderer(presenter.Options{BotUsername: "test_bot"})

	return &testEnv{
		market:  market,
		cache:   symbolCache,
		catalog: catalog,
		service: NewBotService(market, symbolCache, catalog, renderer, "usd", opts...),
	}
}

// withTables carga tablas de símbolos y monedas en el catálogo
func (e *testEnv) withTables(t *testing.T) *testEnv {
	t.Helper()
	assets, err := entities.NewSymbolTable([]string{"BTC", "ETH"}, []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	e.catalog.SetAssets(assets)
	e.catalog.SetCurrencies(entities.NewCurrencyTable([]string{"USD", "EUR"}))
	return e
}

func btcQuote(currency string) *entities.Quote {
	return &entities.Quote{
		Symbol:           "BTC",
		Name:             "Bitcoin",
		Slug:             "bitcoin",
		Currency:         currency,
		Price:            65000.5,
		Volume24h:        1000,
		PercentChange24h: 1.2,
		MarketCap:        5000,
		LastUpdated:      "2024-07-30T05:43:00.000Z",
	}
}

var btcInfo = &entities.AssetInfo{
	Symbol:   "BTC",
	Name:     "Bitcoin",
	Slug:     "bitcoin",
	Websites: []string{"https://bitcoin.org/"},
}

// ===== CASOS DE ÉXITO =====

func TestBotService_FormatQuote_Success(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	ctx := context.Background()

	env.market.On("Exhausted").Return(false)
	env.market.On("GetAssetInfo", mock.Anything, "BTC").Return(btcInfo, nil).Once()
	env.market.On("GetQuote", mock.Anything, "BTC", "EUR").Return(btcQuote("EUR"), nil).Once()

	result, err := env.service.FormatQuote(ctx, "btc", "eur")
	require.NoError(t, err)

	assert.Equal(t, presenter.StatusTokenFound, result.Status)
	assert.Contains(t, result.Message, "[Bitcoin (BTC)](https://coinmarketcap.com/currencies/bitcoin)")
	assert.Contains(t, result.Message, "[Project page](https://bitcoin.org/)")
	assert.Contains(t, result.Message, "*65000.5* EUR")

	// la metadata queda en el catálogo y en el cache durable
	_, ok := env.catalog.AssetInfo("btc")
	assert.True(t, ok)
	md, err := env.cache.LoadMetadata(ctx)
	require.NoError(t, err)
	assert.Contains(t, md, "BTC")

	env.market.AssertExpectations(t)
}

func TestBotService_FormatQuote_MetadataFromCatalog(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.catalog.PutAssetInfo("BTC", *btcInfo)

	env.market.On("Exhausted").Return(false)
	env.market.On("GetQuote", mock.Anything, "BTC", "USD").Return(btcQuote("USD"), nil).Once()

	result, err := env.service.FormatQuote(context.Background(), "BTC", "")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "[Project page](https://bitcoin.org/)")
	env.market.AssertNotCalled(t, "GetAssetInfo", mock.Anything, mock.Anything)
}

func TestBotService_FormatQuote_CurrencySubstituted(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.catalog.PutAssetInfo("BTC", *btcInfo)

	env.market.On("Exhausted").Return(false)
	env.market.On("GetQuote", mock.Anything, "BTC", "USD").Return(btcQuote("USD"), nil).Once()

	result, err := env.service.FormatQuote(context.Background(), "BTC", "xyz")
	require.NoError(t, err)

	assert.Equal(t, `No currency "XYZ" was found. Used "USD" by default.`, result.Status)
	assert.NotEmpty(t, result.Message)
	assert.Contains(t, result.Message, "_Currency XYZ was not found. Used default USD instead._\n")
	env.market.AssertExpectations(t)
}

func TestBotService_FormatQuote_BlindQuery(t *testing.T) {
	env := newTestEnv(t)

	env.market.On("Exhausted").Return(false)
	env.market.On("GetAssetInfo", mock.Anything, "BTC").Return(nil, errors.New("timeout")).Once()
	env.market.On("GetQuote", mock.Anything, "BTC", "XYZ").Return(btcQuote("XYZ"), nil).Once()

	// sin tablas no se valida el símbolo ni la moneda
	result, err := env.service.FormatQuote(context.Background(), "BTC", "XYZ")
	require.NoError(t, err)
	assert.Equal(t, presenter.StatusTokenFound, result.Status)
	assert.Contains(t, result.Message, "(https://coinmarketcap.com/currencies/bitcoin)")
	assert.NotContains(t, result.Message, "Project page")
}

func TestBotService_HandlePriceQuery(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.catalog.PutAssetInfo("ETH", entities.AssetInfo{Symbol: "ETH", Name: "Ethereum", Slug: "ethereum"})

	eth := &entities.Quote{Symbol: "ETH", Name: "Ethereum", Currency: "EUR", Price: 3000}
	env.market.On("Exhausted").Return(false)
	env.market.On("GetQuote", mock.Anything, "ETH", "EUR").Return(eth, nil).Once()

	reply := env.service.HandlePriceQuery(context.Background(), "eth eur")
	assert.True(t, reply.OK)
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0], "Ethereum (ETH)")
	assert.Equal(t, presenter.StatusTokenFound, reply.Status)
}

func TestBotService_HandleListCommand(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.market.On("Exhausted").Return(false)

	assets := env.service.HandleListCommand(context.Background(), dto.ListAssets)
	assert.True(t, assets.OK)
	require.Len(t, assets.Messages, 4)
	assert.Contains(t, assets.Messages[0], "The following 2 crypto tokens are supported")
	assert.Equal(t, "BTC ETH", assets.Messages[1])

	currencies := env.service.HandleListCommand(context.Background(), dto.ListCurrencies)
	require.Len(t, currencies.Messages, 1)
	assert.Contains(t, currencies.Messages[0], "USD EUR")
}

func TestBotService_HandleListCommand_LazyRefetch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	table := entities.NewCurrencyTable([]string{"USD", "CHF"})

	env.market.On("Exhausted").Return(false)
	env.market.On("ListCurrencies", mock.Anything).Return(table, nil).Once()

	reply := env.service.HandleListCommand(ctx, dto.ListCurrencies)
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0], "USD CHF")

	cached, err := env.cache.LoadCurrencies(ctx)
	require.NoError(t, err)
	assert.True(t, cached.Contains("CHF"))
	env.market.AssertExpectations(t)
}

func TestBotService_Bootstrap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// activos desde el cache, monedas desde el proveedor
	assets, err := entities.NewSymbolTable([]string{"BTC"}, []string{"bitcoin"})
	require.NoError(t, err)
	require.NoError(t, env.cache.SaveAssets(ctx, assets))
	require.NoError(t, env.cache.SaveMetadata(ctx, entities.AssetMetadata{"BTC": *btcInfo}))
	env.market.On("ListCurrencies", mock.Anything).Return(entities.NewCurrencyTable([]string{"USD"}), nil).Once()

	env.service.Bootstrap(ctx)

	assert.Equal(t, 1, env.catalog.Assets().Len())
	assert.Equal(t, 1, env.catalog.Currencies().Len())
	assert.Equal(t, 1, env.catalog.MetadataCount())
	env.market.AssertNotCalled(t, "ListAssets", mock.Anything)
	env.market.AssertExpectations(t)
}

func TestBotService_KeyInfo(t *testing.T) {
	env := newTestEnv(t)
	env.market.On("KeyUsage", mock.Anything).Return(&entities.KeyUsage{
		MinuteRequestsMade: 1, MinuteRequestsLeft: 29,
		DayCreditsUsed: 10, DayCreditsLeft: 323,
		MonthCreditsUsed: 100, MonthCreditsLeft: 9900,
	}, nil).Once()

	report, err := env.service.KeyInfo(context.Background())
	require.NoError(t, err)
	assert.Contains(t, report, "Credits used [day]: 10 / 333")
}

func TestBotService_Status(t *testing.T) {
	env := newTestEnv(t, WithQuotaReporter(fakeQuota{active: 1, count: 2}), WithBackupBaseline(func() int { return 40 }))
	env.withTables(t)
	env.market.On("Exhausted").Return(false)

	status := env.service.Status(context.Background())
	assert.Equal(t, 1, status.ActiveKey)
	assert.Equal(t, 2, status.KeyCount)
	assert.Equal(t, 2, status.Assets)
	assert.Equal(t, 2, status.Currencies)
	assert.Equal(t, 40, status.BackupBaseline)
	assert.False(t, status.Exhausted)
}

// ===== CASOS DE ERROR =====

func TestBotService_FormatQuote_Exhausted(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.market.On("Exhausted").Return(true)

	_, err := env.service.FormatQuote(context.Background(), "BTC", "USD")
	assert.ErrorIs(t, err, entities.ErrQuotaExhausted)
	env.market.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_HandlePriceQuery_Exhausted(t *testing.T) {
	env := newTestEnv(t)
	env.market.On("Exhausted").Return(true)

	reply := env.service.HandlePriceQuery(context.Background(), "btc")
	assert.False(t, reply.OK)
	assert.Equal(t, []string{presenter.OutOfQuotaMessage}, reply.Messages)
}

func TestBotService_FormatQuote_UnknownSymbol(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.market.On("Exhausted").Return(false)

	result, err := env.service.FormatQuote(context.Background(), "NOPE", "USD")
	require.NoError(t, err)
	assert.Empty(t, result.Message)
	assert.Equal(t, presenter.StatusTokenNotFound, result.Status)
	env.market.AssertNotCalled(t, "GetAssetInfo", mock.Anything, mock.Anything)
}

func TestBotService_FormatQuote_BlindUnknownSymbol(t *testing.T) {
	env := newTestEnv(t)
	env.market.On("Exhausted").Return(false)
	env.market.On("GetAssetInfo", mock.Anything, "NOPE").Return(nil, entities.ErrSymbolNotFound).Once()

	result, err := env.service.FormatQuote(context.Background(), "nope", "")
	require.NoError(t, err)
	assert.Equal(t, presenter.StatusTokenNotFound, result.Status)
	env.market.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_FormatQuote_QuoteFailure(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.catalog.PutAssetInfo("BTC", *btcInfo)

	env.market.On("Exhausted").Return(false)
	env.market.On("GetQuote", mock.Anything, "BTC", "USD").Return(nil, errors.New("HTTP Status: 500 Internal Server Error")).Twice()

	result, err := env.service.FormatQuote(context.Background(), "BTC", "USD")
	require.NoError(t, err)
	assert.Empty(t, result.Message)
	assert.Equal(t, "HTTP Status: 500 Internal Server Error", result.Status)

	reply := env.service.HandlePriceQuery(context.Background(), "BTC")
	assert.True(t, reply.OK)
	assert.Equal(t, []string{"HTTP Status: 500 Internal Server Error"}, reply.Messages)
}

func TestBotService_FormatQuote_ExhaustedDuringMetadata(t *testing.T) {
	env := newTestEnv(t).withTables(t)
	env.market.On("Exhausted").Return(false)
	env.market.On("GetAssetInfo", mock.Anything, "BTC").Return(nil, entities.ErrQuotaExhausted).Once()

	_, err := env.service.FormatQuote(context.Background(), "BTC", "USD")
	assert.ErrorIs(t, err, entities.ErrQuotaExhausted)
}

func TestBotService_HandleListCommand_Unavailable(t *testing.T) {
	env := newTestEnv(t)
	env.market.On("Exhausted").Return(false)
	env.market.On("ListAssets", mock.Anything).Return(nil, errors.New("down")).Once()

	reply := env.service.HandleListCommand(context.Background(), dto.ListAssets)
	assert.True(t, reply.OK)
	assert.Equal(t, []string{presenter.AssetsUnavailable}, reply.Messages)
}

func TestBotService_KeyInfo_Error(t *testing.T) {
	env := newTestEnv(t)
	env.market.On("KeyUsage", mock.Anything).Return(nil, entities.ErrQuotaExhausted).Once()

	_, err := env.service.KeyInfo(context.Background())
	assert.ErrorIs(t, err, entities.ErrQuotaExhausted)
}
