package coinmarketcap

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	ServiceName    = "coinmarketcap"
	DefaultBaseURL = "https://pro-api.coinmarketcap.com"
	DefaultTimeout = 10 * time.Second
	apiKeyHeader   = "X-CMC_PRO_API_KEY"
)

const (
	endpointCryptoMap  = "/v1/cryptocurrency/map"
	endpointFiatMap    = "/v1/fiat/map"
	endpointCryptoInfo = "/v1/cryptocurrency/info"
	endpointQuotes     = "/v1/cryptocurrency/quotes/latest"
	endpointKeyInfo    = "/v1/key/info"
)

// Client implementa MarketDataProvider sobre la API Pro de CoinMarketCap.
// Cada Client está atado a una única API key; los reintentos los hace el gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient crea un cliente con la URL y timeouts por defecto
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithConfig crea un cliente con la configuración del proveedor
func NewClientWithConfig(cfg config.MarketDataConfig, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// NewFactory retorna una fábrica de clientes, uno por API key
func NewFactory(cfg config.MarketDataConfig) interfaces.MarketDataProviderFactory {
	return func(apiKey string) interfaces.MarketDataProvider {
		return NewClientWithConfig(cfg, apiKey)
	}
}

// ListAssets obtiene todos los símbolos y slugs de criptoactivos
func (c *Client) ListAssets(ctx context.Context) (*entities.SymbolTable, error) {
	var entries []mapEntry
	if err := c.get(ctx, endpointCryptoMap, nil, &entries); err != nil {
		return nil, err
	}

	symbols := make([]string, len(entries))
	slugs := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
		slugs[i] = e.Slug
	}
	return entities.NewSymbolTable(symbols, slugs)
}

// ListCurrencies obtiene todas las monedas fiat soportadas
func (c *Client) ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error) {
	var entries []mapEntry
	if err := c.get(ctx, endpointFiatMap, nil, &entries); err != nil {
		return nil, err
	}

	symbols := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
	}
	return entities.NewCurrencyTable(symbols), nil
}

// GetMetadata pide la metadata de varios símbolos en una sola llamada
func (c *Client) GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error) {
	if len(symbols) == 0 {
		return entities.AssetMetadata{}, nil
	}

	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	var data map[string]infoEntry
	params := url.Values{"symbol": {strings.Join(upper, ",")}}
	if err := c.get(ctx, endpointCryptoInfo, params, &data); err != nil {
		return nil, err
	}

	metadata := make(entities.AssetMetadata, len(data))
	for key, e := range data {
		metadata[strings.ToUpper(key)] = entities.AssetInfo{
			Symbol:   e.Symbol,
			Name:     e.Name,
			Slug:     e.Slug,
			Logo:     e.Logo,
			Websites: e.URLs.Website,
		}
	}
	return metadata, nil
}

// GetQuote obtiene la cotización actual de symbol convertida a currency
func (c *Client) GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error) {
	symbol = strings.ToUpper(symbol)
	currency = strings.ToUpper(currency)

	var data map[string]quoteEntry
	params := url.Values{"symbol": {symbol}, "convert": {currency}}
	if err := c.get(ctx, endpointQuotes, params, &data); err != nil {
		return nil, err
	}

	entry, ok := data[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrSymbolNotFound, symbol)
	}

	q, ok := entry.Quote[currency]
	if !ok {
		return nil, fmt.Errorf("%w: no %s quote for %s", ErrInvalidResponse, currency, symbol)
	}

	return &entities.Quote{
		Symbol:           entry.Symbol,
		Name:             entry.Name,
		Slug:             entry.Slug,
		Currency:         currency,
		Price:            q.Price,
		Volume24h:        q.Volume24h,
		PercentChange24h: q.PercentChange24h,
		MarketCap:        q.MarketCap,
		LastUpdated:      q.LastUpdated,
	}, nil
}

// GetKeyUsage obtiene plan y consumo de créditos de la key
func (c *Client) GetKeyUsage(ctx context.Context) (*entities.KeyUsage, error) {
	var info keyInfo
	if err := c.get(ctx, endpointKeyInfo, nil, &info); err != nil {
		return nil, err
	}

	return &entities.KeyUsage{
		CreditLimitDaily:   info.Plan.CreditLimitDaily,
		CreditLimitMonthly: info.Plan.CreditLimitMonthly,
		RateLimitMinute:    info.Plan.RateLimitMinute,
		MinuteRequestsMade: info.Usage.CurrentMinute.RequestsMade,
		MinuteRequestsLeft: info.Usage.CurrentMinute.RequestsLeft,
		DayCreditsUsed:     info.Usage.CurrentDay.CreditsUsed,
		DayCreditsLeft:     info.Usage.CurrentDay.CreditsLeft,
		MonthCreditsUsed:   info.Usage.CurrentMonth.CreditsUsed,
		MonthCreditsLeft:   info.Usage.CurrentMonth.CreditsLeft,
	}, nil
}

// get ejecuta un GET, valida el bloque status y decodifica data en out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	logging.ExternalAPI().RequestStarted(ctx, ServiceName, endpoint)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	durationMs := float64(duration.Nanoseconds()) / 1e6

	if err != nil {
		logging.ExternalAPI().RequestFailed(ctx, ServiceName, endpoint, 0, err, durationMs)
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordExternalAPICall(ServiceName, endpoint, resp.StatusCode, duration.Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read body: %v", ErrRequestFailed, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return newAPIError(Status{}, resp.StatusCode)
		}
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	status := Status{Code: env.Status.ErrorCode, Message: env.Status.ErrorMessage}
	if !status.IsSuccess() || resp.StatusCode != http.StatusOK {
		apiErr := newAPIError(status, resp.StatusCode)
		logging.ExternalAPI().RequestFailed(ctx, ServiceName, endpoint, resp.StatusCode, apiErr, durationMs)
		return apiErr
	}

	logging.ExternalAPI().RequestCompleted(ctx, ServiceName, endpoint, resp.StatusCode, durationMs)

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrInvalidResponse, err)
	}
	return nil
}
