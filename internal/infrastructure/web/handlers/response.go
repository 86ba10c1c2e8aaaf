package handlers

import (
	"context"
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/infrastructure/logging"
	"net/http"

	"github.com/goccy/go-json"
)

// writeJSONResponse escribe una respuesta JSON preservando el contexto del request
func writeJSONResponse(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.ErrorWithError(ctx, "Failed to encode JSON response", err, logging.Fields{
			"status_code": statusCode,
		})
	}
}

// writeErrorResponse writes an error response
func writeErrorResponse(ctx context.Context, w http.ResponseWriter, statusCode int, errorCode, message string) {
	writeJSONResponse(ctx, w, statusCode, dto.NewErrorResponseWithCode(http.StatusText(statusCode), message, errorCode))
}

// replyStatus: una respuesta sin OK solo ocurre con la cuota agotada
func replyStatus(reply dto.Reply) int {
	if !reply.OK {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
