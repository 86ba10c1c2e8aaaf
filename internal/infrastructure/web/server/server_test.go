package server

import (
	"context"
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/infrastructure/config"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubService responde siempre lo mismo; alcanza para probar el cableado del router
type stubService struct{}

func (stubService) FormatQuote(ctx context.Context, symbol, currency string) (dto.QuoteResult, error) {
	return dto.QuoteResult{Message: symbol + " " + currency, Status: "ok"}, nil
}

func (stubService) HandlePriceQuery(ctx context.Context, text string) dto.Reply {
	return dto.Reply{Messages: []string{text}, OK: true}
}

func (stubService) HandleListCommand(ctx context.Context, kind dto.ListKind) dto.Reply {
	return dto.Reply{Messages: []string{string(kind)}, OK: true}
}

func (stubService) KeyInfo(ctx context.Context) (string, error) {
	return "usage", nil
}

func (stubService) Status(ctx context.Context) dto.StatusResponse {
	return dto.StatusResponse{Assets: 1}
}

func testConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit.Capacity = 1
	cfg.Auth = config.AuthConfig{
		Enabled:     true,
		Token:       "tok",
		HeaderName:  "X-Bot-Token",
		UnauthPaths: []string{"/health", "/ready", "/metrics", "/swagger/", "/docs"},
	}
	return cfg
}

// ===== CASOS DE ÉXITO =====

func TestNewRouter_ProbesAndMetrics(t *testing.T) {
	router := NewRouter(stubService{}, testConfig())

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestNewRouter_SwaggerDocs(t *testing.T) {
	router := NewRouter(stubService{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, path := range []string{"/health", "/ready", "/api/v1/query", "/api/v1/price/{symbol}", "/api/v1/assets", "/api/v1/currencies", "/api/v1/usage", "/api/v1/status"} {
		assert.Contains(t, rec.Body.String(), `"`+path+`"`)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/swagger/index.html", rec.Header().Get("Location"))
}

func TestNewRouter_AuthenticatedQuery(t *testing.T) {
	router := NewRouter(stubService{}, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{"chat_id":"7","text":"BTC"}`))
	req.Header.Set("X-Bot-Token", "tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BTC")
}

func TestNewServer(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), 9090)

	assert.Equal(t, 9090, s.GetPort())
	assert.Equal(t, ":9090", s.httpServer.Addr)
	assert.NoError(t, s.Stop(context.Background()))
}

// ===== CASOS DE ERROR =====

func TestNewRouter_RejectsWithoutToken(t *testing.T) {
	router := NewRouter(stubService{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewRouter_RateLimitsPerChat(t *testing.T) {
	router := NewRouter(stubService{}, testConfig())

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil)
		req.Header.Set("X-Bot-Token", "tok")
		req.Header.Set("X-Chat-ID", "chat-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
