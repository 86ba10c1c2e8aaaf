package middleware

import (
	"crypto-price-bot/internal/infrastructure/logging"
	"net/http"
	"strings"
)

// maxBodySize por encima del cual un request se considera sospechoso
const maxBodySize = 1024 * 1024

// suspiciousPatterns son fragmentos típicos de ataques en path o query
var suspiciousPatterns = []string{
	"../",
	"<SCRIPT",
	"SELECT",
	"UNION",
	"DROP",
	"INSERT",
	"DELETE",
	"EXEC(",
	"EVAL(",
}

// LoggingMiddleware registra la llegada de cada request y marca los sospechosos.
// Complementa a RequestTracingMiddleware, que registra la finalización.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		remoteIP := getRemoteIP(r)

		logging.HTTP().RequestReceived(ctx, r.Method, r.URL.Path, r.UserAgent(), remoteIP)

		logging.Debug(ctx, "Processing HTTP request", logging.Fields{
			"headers":        extractImportantHeaders(r),
			"query":          r.URL.RawQuery,
			"content_length": r.ContentLength,
		})

		if reason := suspiciousReason(r); reason != "" {
			logging.Security().InvalidRequest(ctx, remoteIP, reason)
		}

		next.ServeHTTP(w, r)
	})
}

// extractImportantHeaders extracts relevant headers for logging
func extractImportantHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string)

	// Sin Authorization ni el token del bot
	importantHeaders := []string{
		"Content-Type",
		"Accept",
		"X-Chat-ID",
		"X-Forwarded-For",
		"X-Real-IP",
	}

	for _, header := range importantHeaders {
		if value := r.Header.Get(header); value != "" {
			headers[header] = value
		}
	}

	return headers
}

// suspiciousReason retorna el motivo por el que un request parece un ataque, o vacío
func suspiciousReason(r *http.Request) string {
	path := strings.ToUpper(r.URL.Path)
	query := strings.ToUpper(r.URL.RawQuery)

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			return "suspicious pattern: " + pattern
		}
	}

	if r.ContentLength > maxBodySize {
		return "oversized body"
	}

	return ""
}
