package metrics

import (
	"net/http"
	"strings"
	"time"
)

// HTTPMetricsMiddleware collects HTTP metrics for Prometheus
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(recorder, r)

		RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), recorder.statusCode,
			time.Since(start).Seconds(), recorder.written)
	})
}

// statusRecorder captura status y bytes escritos
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// knownPaths son las rutas que se reportan tal cual
var knownPaths = map[string]bool{
	"/":                  true,
	"/health":            true,
	"/ready":             true,
	"/metrics":           true,
	"/api/v1/query":      true,
	"/api/v1/assets":     true,
	"/api/v1/currencies": true,
	"/api/v1/usage":      true,
	"/api/v1/status":     true,
	"/docs":              true,
}

// normalizePath normalizes URL paths to avoid high cardinality in metrics
func normalizePath(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	switch {
	case knownPaths[path]:
		return path
	case strings.HasPrefix(path, "/swagger/"):
		return "/swagger/*"
	case strings.HasPrefix(path, "/api/v1/price/"):
		return "/api/v1/price/{symbol}"
	case strings.HasPrefix(path, "/api/"):
		return "/api/*"
	default:
		return "/unknown"
	}
}
