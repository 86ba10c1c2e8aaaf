package exchange

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/exchange/coinmarketcap"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockProvider implementa MarketDataProvider con testify/mock
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) ListAssets(ctx context.Context) (*entities.SymbolTable, error) {
	args := m.Called(ctx)
	var t *entities.SymbolTable
	if v := args.Get(0); v != nil {
		t = v.(*entities.SymbolTable)
	}
	return t, args.Error(1)
}

func (m *mockProvider) ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error) {
	args := m.Called(ctx)
	var t *entities.CurrencyTable
	if v := args.Get(0); v != nil {
		t = v.(*entities.CurrencyTable)
	}
	return t, args.Error(1)
}

func (m *mockProvider) GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error) {
	args := m.Called(ctx, symbols)
	var md entities.AssetMetadata
	if v := args.Get(0); v != nil {
		md = v.(entities.AssetMetadata)
	}
	return md, args.Error(1)
}

func (m *mockProvider) GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error) {
	args := m.Called(ctx, symbol, currency)
	var q *entities.Quote
	if v := args.Get(0); v != nil {
		q = v.(*entities.Quote)
	}
	return q, args.Error(1)
}

func (m *mockProvider) GetKeyUsage(ctx context.Context) (*entities.KeyUsage, error) {
	args := m.Called(ctx)
	var u *entities.KeyUsage
	if v := args.Get(0); v != nil {
		u = v.(*entities.KeyUsage)
	}
	return u, args.Error(1)
}

func newTestGateway(t *testing.T, providers ...*mockProvider) *QuotaGateway {
	t.Helper()
	keys := make([]string, len(providers))
	byKey := make(map[string]*mockProvider, len(providers))
	for i, p := range providers {
		keys[i] = string(rune('a' + i))
		byKey[keys[i]] = p
	}

	cfg := config.MarketDataConfig{
		APIKeys:        keys,
		RequestTimeout: time.Second,
		RetryDelay:     10 * time.Millisecond,
		DayThreshold:   0.99,
		MonthThreshold: 0.99,
	}
	g, err := NewQuotaGateway(cfg, func(apiKey string) interfaces.MarketDataProvider {
		return byKey[apiKey]
	})
	require.NoError(t, err)
	return g
}

func usage(dayUsed, dayLimit int64) *entities.KeyUsage {
	return &entities.KeyUsage{
		CreditLimitDaily:   dayLimit,
		CreditLimitMonthly: 10000,
		DayCreditsUsed:     dayUsed,
		DayCreditsLeft:     dayLimit - dayUsed,
		MonthCreditsUsed:   100,
	}
}

// ===== CASOS DE ÉXITO =====

func TestQuotaGateway_GetQuote_Success(t *testing.T) {
	p := &mockProvider{}
	quote := &entities.Quote{Symbol: "BTC", Currency: "USD", Price: 65000}
	p.On("GetQuote", mock.Anything, "BTC", "USD").Return(quote, nil).Once()

	g := newTestGateway(t, p)

	got, err := g.GetQuote(context.Background(), "BTC", "USD")
	require.NoError(t, err)
	assert.Equal(t, quote, got)
	p.AssertExpectations(t)
}

func TestQuotaGateway_RetriesOnceAfterDelay(t *testing.T) {
	p := &mockProvider{}
	table, err := entities.NewSymbolTable([]string{"BTC"}, []string{"bitcoin"})
	require.NoError(t, err)
	p.On("ListAssets", mock.Anything).Return(nil, errors.New("transient")).Once()
	p.On("ListAssets", mock.Anything).Return(table, nil).Once()

	g := newTestGateway(t, p)

	start := time.Now()
	got, err := g.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, table, got)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	p.AssertNumberOfCalls(t, "ListAssets", 2)
}

func TestQuotaGateway_GetAssetInfo(t *testing.T) {
	p := &mockProvider{}
	md := entities.AssetMetadata{"ETH": {Symbol: "ETH", Name: "Ethereum", Slug: "ethereum"}}
	p.On("GetMetadata", mock.Anything, []string{"ETH"}).Return(md, nil).Once()

	g := newTestGateway(t, p)

	info, err := g.GetAssetInfo(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", info.Name)
}

// slowMetadataProvider tarda en devolver la metadata y respeta la cancelación del ctx
type slowMetadataProvider struct {
	mockProvider
	delay time.Duration
	calls int32
}

func (p *slowMetadataProvider) GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error) {
	atomic.AddInt32(&p.calls, 1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.delay):
		return entities.AssetMetadata{"ETH": {Symbol: "ETH", Name: "Ethereum", Slug: "ethereum"}}, nil
	}
}

type assetInfoResult struct {
	info *entities.AssetInfo
	err  error
}

func TestQuotaGateway_GetAssetInfo_SharedCallSurvivesCancelledCaller(t *testing.T) {
	p := &slowMetadataProvider{delay: 200 * time.Millisecond}
	cfg := config.MarketDataConfig{
		APIKeys:        []string{"a"},
		RequestTimeout: time.Second,
		RetryDelay:     10 * time.Millisecond,
		DayThreshold:   0.99,
		MonthThreshold: 0.99,
	}
	g, err := NewQuotaGateway(cfg, func(string) interfaces.MarketDataProvider { return p })
	require.NoError(t, err)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()

	first := make(chan assetInfoResult, 1)
	go func() {
		info, err := g.GetAssetInfo(firstCtx, "ETH")
		first <- assetInfoResult{info: info, err: err}
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&p.calls) == 1 }, time.Second, time.Millisecond)

	second := make(chan assetInfoResult, 1)
	go func() {
		info, err := g.GetAssetInfo(context.Background(), "eth")
		second <- assetInfoResult{info: info, err: err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	gotFirst := <-first
	assert.ErrorIs(t, gotFirst.err, context.Canceled)

	gotSecond := <-second
	require.NoError(t, gotSecond.err)
	assert.Equal(t, "Ethereum", gotSecond.info.Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.calls))
}

func TestQuotaGateway_CheckKeys_Healthy(t *testing.T) {
	p := &mockProvider{}
	p.On("GetKeyUsage", mock.Anything).Return(usage(10, 333), nil).Once()

	g := newTestGateway(t, p, &mockProvider{})

	report := g.CheckKeys(context.Background())
	assert.Equal(t, HealthHealthy, report.Result)
	assert.Equal(t, 0, report.ActiveKey)
	assert.False(t, g.Exhausted())
	assert.False(t, g.State().LastCheck.IsZero())
}

func TestQuotaGateway_CheckKeys_Failover(t *testing.T) {
	first := &mockProvider{}
	second := &mockProvider{}
	first.On("GetKeyUsage", mock.Anything).Return(usage(333, 333), nil).Once()
	second.On("GetKeyUsage", mock.Anything).Return(usage(5, 333), nil).Once()
	quote := &entities.Quote{Symbol: "BTC", Currency: "USD", Price: 1}
	second.On("GetQuote", mock.Anything, "BTC", "USD").Return(quote, nil).Once()

	g := newTestGateway(t, first, second)

	report := g.CheckKeys(context.Background())
	assert.Equal(t, HealthFailover, report.Result)
	assert.Equal(t, 0, report.PreviousKey)
	assert.Equal(t, 1, report.ActiveKey)
	assert.Equal(t, 1, g.ActiveKeyIndex())

	// las llamadas siguientes usan la key adoptada
	_, err := g.GetQuote(context.Background(), "BTC", "USD")
	require.NoError(t, err)
	first.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything, mock.Anything)
	second.AssertExpectations(t)
}

func TestQuotaGateway_CheckKeys_RecoversFromExhausted(t *testing.T) {
	p := &mockProvider{}
	p.On("GetKeyUsage", mock.Anything).Return(usage(333, 333), nil).Once()
	p.On("GetKeyUsage", mock.Anything).Return(usage(0, 333), nil).Once()

	g := newTestGateway(t, p)

	assert.Equal(t, HealthExhausted, g.CheckKeys(context.Background()).Result)
	assert.True(t, g.Exhausted())

	assert.Equal(t, HealthHealthy, g.CheckKeys(context.Background()).Result)
	assert.False(t, g.Exhausted())
}

func TestRotation(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, rotation(0, 3))
	assert.Equal(t, []int{1, 0, 2}, rotation(1, 3))
	assert.Equal(t, []int{2, 0, 1}, rotation(2, 3))
	assert.Equal(t, []int{0}, rotation(0, 1))
}

// ===== CASOS DE ERROR =====

func TestNewQuotaGateway_NoKeys(t *testing.T) {
	_, err := NewQuotaGateway(config.MarketDataConfig{}, NewMockFactory())
	assert.Error(t, err)
}

func TestQuotaGateway_FailsAfterTwoAttempts(t *testing.T) {
	p := &mockProvider{}
	p.On("GetQuote", mock.Anything, "BTC", "USD").Return(nil, errors.New("boom")).Twice()

	g := newTestGateway(t, p)

	_, err := g.GetQuote(context.Background(), "BTC", "USD")
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	p.AssertNumberOfCalls(t, "GetQuote", 2)
}

func TestQuotaGateway_CanceledContextNotRetried(t *testing.T) {
	p := &mockProvider{}
	p.On("ListCurrencies", mock.Anything).Return(nil, context.Canceled).Once()

	g := newTestGateway(t, p)

	_, err := g.ListCurrencies(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	p.AssertNumberOfCalls(t, "ListCurrencies", 1)
}

func TestQuotaGateway_ExhaustedShortCircuits(t *testing.T) {
	first := &mockProvider{}
	second := &mockProvider{}
	first.On("GetKeyUsage", mock.Anything).Return(usage(400, 333), nil).Once()
	second.On("GetKeyUsage", mock.Anything).Return(usage(333, 333), nil).Once()

	g := newTestGateway(t, first, second)

	report := g.CheckKeys(context.Background())
	require.Equal(t, HealthExhausted, report.Result)
	assert.True(t, g.Exhausted())
	assert.Len(t, report.Usage, 2)

	_, err := g.GetQuote(context.Background(), "BTC", "USD")
	assert.ErrorIs(t, err, entities.ErrQuotaExhausted)
	_, err = g.KeyUsage(context.Background())
	assert.ErrorIs(t, err, entities.ErrQuotaExhausted)
	_, err = g.GetAssetInfo(context.Background(), "BTC")
	assert.ErrorIs(t, err, entities.ErrQuotaExhausted)

	first.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything, mock.Anything)
	first.AssertNotCalled(t, "GetMetadata", mock.Anything, mock.Anything)
}

func TestQuotaGateway_CheckKeys_NoAnswerKeepsState(t *testing.T) {
	first := &mockProvider{}
	second := &mockProvider{}
	first.On("GetKeyUsage", mock.Anything).Return(nil, errors.New("down"))
	second.On("GetKeyUsage", mock.Anything).Return(usage(333, 333), nil).Once()

	g := newTestGateway(t, first, second)

	report := g.CheckKeys(context.Background())
	assert.Equal(t, HealthUnknown, report.Result)
	assert.Contains(t, report.Errors, 0)
	assert.False(t, g.Exhausted())
	assert.Equal(t, 0, g.ActiveKeyIndex())
}

func TestQuotaGateway_QuotaErrorTriggersHook(t *testing.T) {
	p := &mockProvider{}
	quotaErr := &coinmarketcap.APIError{Status: coinmarketcap.Status{Code: 1009, Message: "over daily limit"}, HTTPStatus: 429}
	p.On("GetQuote", mock.Anything, "BTC", "USD").Return(nil, quotaErr).Twice()

	g := newTestGateway(t, p)
	var fired int32
	g.SetOnQuotaFailure(func() { atomic.AddInt32(&fired, 1) })

	_, err := g.GetQuote(context.Background(), "BTC", "USD")
	require.Error(t, err)
	assert.True(t, coinmarketcap.IsQuotaError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestQuotaGateway_GetAssetInfo_Missing(t *testing.T) {
	p := &mockProvider{}
	p.On("GetMetadata", mock.Anything, []string{"NOPE"}).Return(entities.AssetMetadata{}, nil).Once()

	g := newTestGateway(t, p)

	_, err := g.GetAssetInfo(context.Background(), "nope")
	assert.ErrorIs(t, err, entities.ErrSymbolNotFound)
}
