package ratelimit

import (
	"bytes"
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	// ChatIDHeader identifica el chat que origina la request
	ChatIDHeader = "X-Chat-ID"
	maxPeekBytes = 1 << 16
)

// RateLimitMiddleware limita requests por chat con un token bucket
type RateLimitMiddleware struct {
	limiter   *ChatLimiter
	skipPaths map[string]bool
	enabled   bool
}

// NewRateLimitMiddleware creates a new rate limiting middleware with configuration
func NewRateLimitMiddleware(cfg config.RateLimitConfig) *RateLimitMiddleware {
	// Paths that should skip rate limiting
	skipPaths := map[string]bool{
		"/health":  true,
		"/ready":   true,
		"/metrics": true,
		"/docs":    true,
	}

	var limiter *ChatLimiter
	if cfg.Enabled {
		limiter = NewChatLimiter(cfg.Capacity, cfg.RefillRate, cfg.MaxClients)
	}

	return &RateLimitMiddleware{
		limiter:   limiter,
		skipPaths: skipPaths,
		enabled:   cfg.Enabled,
	}
}

// Handler returns the HTTP middleware handler
func (rlm *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rlm.enabled || rlm.skipPaths[r.URL.Path] || strings.HasPrefix(r.URL.Path, "/swagger/") {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		clientID := getClientID(r)

		allowed, remaining := rlm.limiter.Allow(clientID)
		metrics.RecordRateLimitResult(allowed)

		if !allowed {
			logging.Security().RateLimitExceeded(ctx, clientID, r.URL.Path)
			writeRateLimitError(w)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}

// getClientID usa el chat de la request (header o campo chat_id del body JSON)
// y si no hay, la IP del cliente
func getClientID(r *http.Request) string {
	if chatID := strings.TrimSpace(r.Header.Get(ChatIDHeader)); chatID != "" {
		return "chat:" + chatID
	}
	if chatID := peekChatID(r); chatID != "" {
		return "chat:" + chatID
	}
	return "ip:" + clientIP(r)
}

// peekChatID lee chat_id del body JSON sin consumirlo
func peekChatID(r *http.Request) string {
	if r.Body == nil || r.Method != http.MethodPost || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var req dto.QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.ChatID)
}

func clientIP(r *http.Request) string {
	// Try to get real IP from headers (reverse proxy/load balancer)
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}
	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// writeRateLimitError writes a rate limit exceeded error response
func writeRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)

	resp := dto.NewErrorResponse("RATE_LIMIT_EXCEEDED", "Rate limit exceeded. Please slow down your requests.")
	resp.Code = strconv.Itoa(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(resp)
}

// Stats returns rate limiting statistics
func (rlm *RateLimitMiddleware) Stats() map[string]interface{} {
	stats := map[string]interface{}{"enabled": rlm.enabled}
	if rlm.limiter != nil {
		for k, v := range rlm.limiter.Stats() {
			stats[k] = v
		}
	}
	return stats
}
