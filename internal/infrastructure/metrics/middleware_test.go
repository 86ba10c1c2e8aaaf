package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/":                   "/",
		"/health/":            "/health",
		"/api/v1/query":       "/api/v1/query",
		"/api/v1/assets":      "/api/v1/assets",
		"/api/v1/whatever/42": "/api/*",
		"/api/v1/price/btc":   "/api/v1/price/{symbol}",
		"/swagger/index.html": "/swagger/*",
		"/docs":               "/docs",
		"/favicon.ico":        "/unknown",
	}

	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), in)
	}
}

func TestHTTPMetricsMiddleware_RecordsStatus(t *testing.T) {
	handler := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/status", "418"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/status", "418"))
	assert.Equal(t, before+1, after)
}
