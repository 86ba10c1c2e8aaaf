package handlers

import (
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/application/presenter"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/logging"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// maxQueryBytes acota el cuerpo de un mensaje de chat
const maxQueryBytes = 4096

// BotHandler expone los casos de uso del bot al front-end de chat
type BotHandler struct {
	service interfaces.BotService
}

// NewBotHandler creates a new instance of the bot handler
func NewBotHandler(service interfaces.BotService) *BotHandler {
	return &BotHandler{
		service: service,
	}
}

// Query maneja POST /api/v1/query con {"chat_id": "...", "text": "BTC EUR"}
func (h *BotHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request dto.QueryRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQueryBytes))
	if err == nil {
		err = json.Unmarshal(body, &request)
	}
	if err != nil {
		logging.Security().InvalidRequest(ctx, r.RemoteAddr, "malformed query body")
		writeErrorResponse(ctx, w, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object with chat_id and text")
		return
	}

	if err := request.Validate(); err != nil {
		writeErrorResponse(ctx, w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}

	if request.ChatID != "" {
		ctx = logging.WithChatID(ctx, request.ChatID)
	}
	logging.Debug(ctx, "Chat query received", logging.Fields{
		"text": request.Text,
	})

	reply := h.service.HandlePriceQuery(ctx, request.Text)
	writeJSONResponse(ctx, w, replyStatus(reply), reply)
}

// GetPrice maneja GET /api/v1/price/{symbol}?currency=EUR
func (h *BotHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]
	currency := r.URL.Query().Get("currency")

	result, err := h.service.FormatQuote(ctx, symbol, currency)
	if err != nil {
		if errors.Is(err, entities.ErrQuotaExhausted) {
			writeErrorResponse(ctx, w, http.StatusServiceUnavailable, "QUOTA_EXHAUSTED", presenter.OutOfQuotaMessage)
			return
		}
		logging.ErrorWithError(ctx, "Price lookup failed", err, logging.Fields{
			logging.FieldSymbol: symbol,
		})
		writeErrorResponse(ctx, w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}

	writeJSONResponse(ctx, w, http.StatusOK, result)
}

// ListAssets maneja GET /api/v1/assets
func (h *BotHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	reply := h.service.HandleListCommand(r.Context(), dto.ListAssets)
	writeJSONResponse(r.Context(), w, replyStatus(reply), reply)
}

// ListCurrencies maneja GET /api/v1/currencies
func (h *BotHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	reply := h.service.HandleListCommand(r.Context(), dto.ListCurrencies)
	writeJSONResponse(r.Context(), w, replyStatus(reply), reply)
}

// Usage maneja GET /api/v1/usage: consumo de créditos de la key activa
func (h *BotHandler) Usage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.KeyInfo(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrQuotaExhausted) {
			writeErrorResponse(ctx, w, http.StatusServiceUnavailable, "QUOTA_EXHAUSTED", presenter.OutOfQuotaMessage)
			return
		}
		logging.ErrorWithError(ctx, "Key usage lookup failed", err, nil)
		writeErrorResponse(ctx, w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}

	status := h.service.Status(ctx)
	writeJSONResponse(ctx, w, http.StatusOK, dto.UsageResponse{
		Report:    report,
		KeyIndex:  status.ActiveKey,
		Exhausted: status.Exhausted,
	})
}

// Status maneja GET /api/v1/status
func (h *BotHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(r.Context(), w, http.StatusOK, h.service.Status(r.Context()))
}

// RegisterRoutes registra los endpoints del bot bajo el router dado
func (h *BotHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/query", h.Query).Methods(http.MethodPost)
	api.HandleFunc("/price/{symbol}", h.GetPrice).Methods(http.MethodGet)
	api.HandleFunc("/assets", h.ListAssets).Methods(http.MethodGet)
	api.HandleFunc("/currencies", h.ListCurrencies).Methods(http.MethodGet)
	api.HandleFunc("/usage", h.Usage).Methods(http.MethodGet)
	api.HandleFunc("/status", h.Status).Methods(http.MethodGet)
}
