package middleware

import (
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// AuthMiddleware exige el token compartido con el front-end de chat
type AuthMiddleware struct {
	config config.AuthConfig
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(config config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
	}
}

// Handler wraps the given handler with token authentication
func (am *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !am.config.Enabled || am.isUnauthenticatedPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(am.config.HeaderName)
		if token == "" {
			am.respondWithAuthError(w, r, "Bot token missing", "TOKEN_MISSING")
			return
		}

		if !am.isValidToken(token) {
			am.respondWithAuthError(w, r, "Invalid bot token", "TOKEN_INVALID")
			return
		}

		logging.Debug(r.Context(), "Bot token accepted", logging.Fields{
			logging.FieldHTTPPath: r.URL.Path,
		})

		next.ServeHTTP(w, r)
	})
}

// isUnauthenticatedPath verifica si la ruta está exenta (exacta o por prefijo)
func (am *AuthMiddleware) isUnauthenticatedPath(path string) bool {
	for _, unauthPath := range am.config.UnauthPaths {
		if path == unauthPath || strings.HasPrefix(path, unauthPath) {
			return true
		}
	}
	return false
}

func (am *AuthMiddleware) isValidToken(provided string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(am.config.Token)) == 1
}

// respondWithAuthError envía una respuesta 401 estructurada
func (am *AuthMiddleware) respondWithAuthError(w http.ResponseWriter, r *http.Request, message, code string) {
	ctx := r.Context()
	logging.Security().InvalidRequest(ctx, getRemoteIP(r), code)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="bot"`)
	w.WriteHeader(http.StatusUnauthorized)

	response := dto.NewErrorResponseWithCode("Authentication Failed", message, code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.ErrorWithError(ctx, "Error encoding auth error response", err, nil)
	}
}
