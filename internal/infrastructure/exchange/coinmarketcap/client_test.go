package coinmarketcap

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/infrastructure/config"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okStatus = `{"timestamp":"2024-07-30T05:43:00.000Z","error_code":0,"error_message":null,"elapsed":10,"credit_count":1}`

// newTestServer sirve respuestas fijas por path y verifica la API key
func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(apiKeyHeader) != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = fmt.Fprint(w, `{"status":{"error_code":1002,"error_message":"API key missing."}}`)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, body)
	}))
}

func newTestClient(server *httptest.Server, key string) *Client {
	return NewClientWithConfig(config.MarketDataConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
	}, key)
}

// ===== CASOS DE ÉXITO =====

func TestNewClient_DefaultConfiguration(t *testing.T) {
	client := NewClient("k")

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestClient_ListAssets(t *testing.T) {
	server := newTestServer(t, map[string]string{
		endpointCryptoMap: `{"status":` + okStatus + `,"data":[
			{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin"},
			{"id":1027,"name":"Ethereum","symbol":"ETH","slug":"ethereum"}]}`,
	})
	defer server.Close()

	table, err := newTestClient(server, "test-key").ListAssets(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH"}, table.Symbols())
	assert.Equal(t, []string{"bitcoin", "ethereum"}, table.Slugs())
}

func TestClient_ListCurrencies(t *testing.T) {
	server := newTestServer(t, map[string]string{
		endpointFiatMap: `{"status":` + okStatus + `,"data":[{"id":2781,"name":"United States Dollar","sign":"$","symbol":"USD"},{"id":2790,"name":"Euro","sign":"€","symbol":"EUR"}]}`,
	})
	defer server.Close()

	table, err := newTestClient(server, "test-key").ListCurrencies(context.Background())

	require.NoError(t, err)
	assert.True(t, table.Contains("eur"))
	assert.Equal(t, 2, table.Len())
}

func TestClient_GetMetadata(t *testing.T) {
	var gotSymbols, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbols = r.URL.Query().Get("symbol")
		_, _ = fmt.Fprint(w, `{"status":`+okStatus+`,"data":{
			"BTC":{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin","logo":"https://s2.coinmarketcap.com/1.png","urls":{"website":["https://bitcoin.org/"]}},
			"ETH":{"id":1027,"name":"Ethereum","symbol":"ETH","slug":"ethereum","urls":{"website":[]}}}}`)
	}))
	defer server.Close()

	metadata, err := newTestClient(server, "test-key").GetMetadata(context.Background(), []string{"btc", "eth"})

	require.NoError(t, err)
	assert.Equal(t, "/v1/cryptocurrency/info", gotPath)
	assert.Equal(t, "BTC,ETH", gotSymbols)
	require.Len(t, metadata, 2)
	assert.Equal(t, "https://bitcoin.org/", metadata["BTC"].ProjectURL())
	assert.Equal(t, "", metadata["ETH"].ProjectURL())
}

func TestClient_GetMetadata_EmptyInputSkipsRequest(t *testing.T) {
	client := NewClient("k")
	client.baseURL = "http://127.0.0.1:1"

	metadata, err := client.GetMetadata(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, metadata)
}

func TestClient_GetQuote(t *testing.T) {
	var gotConvert, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotConvert = r.URL.Query().Get("convert")
		_, _ = fmt.Fprint(w, `{"status":`+okStatus+`,"data":{"BTC":{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin",
			"quote":{"EUR":{"price":61234.5678,"volume_24h":21000000000.4,"percent_change_24h":-1.234,"market_cap":1200000000000.1,"last_updated":"2024-07-30T05:43:00.000Z"}}}}}`)
	}))
	defer server.Close()

	quote, err := newTestClient(server, "test-key").GetQuote(context.Background(), "btc", "eur")

	require.NoError(t, err)
	assert.Equal(t, "/v1/cryptocurrency/quotes/latest", gotPath)
	assert.Equal(t, "EUR", gotConvert)
	assert.Equal(t, "Bitcoin", quote.Name)
	assert.Equal(t, "EUR", quote.Currency)
	assert.InDelta(t, 61234.5678, quote.Price, 1e-9)
	assert.InDelta(t, -1.234, quote.PercentChange24h, 1e-9)
	assert.Equal(t, "2024-07-30T05:43:00.000Z", quote.LastUpdated)
}

func TestClient_GetKeyUsage(t *testing.T) {
	server := newTestServer(t, map[string]string{
		endpointKeyInfo: `{"status":` + okStatus + `,"data":{
			"plan":{"credit_limit_daily":333,"credit_limit_monthly":10000,"rate_limit_minute":30},
			"usage":{"current_minute":{"requests_made":1,"requests_left":29},
			"current_day":{"credits_used":120,"credits_left":213},
			"current_month":{"credits_used":4000,"credits_left":6000}}}}`,
	})
	defer server.Close()

	usage, err := newTestClient(server, "test-key").GetKeyUsage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(333), usage.CreditLimitDaily)
	assert.Equal(t, int64(120), usage.DayCreditsUsed)
	assert.Equal(t, int64(6000), usage.MonthCreditsLeft)
	assert.True(t, usage.HasHeadroom(0.99, 0.99))
}

// ===== CASOS DE ERROR =====

func TestClient_ProviderErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = fmt.Fprint(w, `{"status":{"error_code":1009,"error_message":"You've exceeded your API Key's daily rate limit."}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server, "test-key").GetQuote(context.Background(), "BTC", "USD")

	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatus)
	assert.Equal(t, "HTTP Status: 429. Error Code: 1009. You've exceeded your API Key's daily rate limit.", err.Error())
	assert.True(t, IsQuotaError(err))
}

func TestClient_WrongKey(t *testing.T) {
	server := newTestServer(t, map[string]string{})
	defer server.Close()

	_, err := newTestClient(server, "bad-key").ListAssets(context.Background())

	assert.Equal(t, CauseAuthentication, StatusOf(err).Cause())
	assert.False(t, IsQuotaError(err))
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	_, err := newTestClient(server, "test-key").ListCurrencies(context.Background())

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_SymbolMissingFromResponse(t *testing.T) {
	server := newTestServer(t, map[string]string{
		endpointQuotes: `{"status":` + okStatus + `,"data":{}}`,
	})
	defer server.Close()

	_, err := newTestClient(server, "test-key").GetQuote(context.Background(), "ZZZ", "USD")

	assert.ErrorIs(t, err, entities.ErrSymbolNotFound)
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newTestClient(server, "test-key")
	server.Close()

	_, err := client.GetKeyUsage(context.Background())

	assert.ErrorIs(t, err, ErrRequestFailed)
}
