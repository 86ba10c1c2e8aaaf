package handlers

import (
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/domain/interfaces"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// HealthHandler maneja los endpoints de health check
type HealthHandler struct {
	service interfaces.BotService
}

// NewHealthHandler crea una nueva instancia del health handler
func NewHealthHandler(service interfaces.BotService) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

// Health responde rápido sin consultar dependencias externas
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"service": "running",
	}

	response := dto.NewHealthResponse("healthy", services)
	writeJSONResponse(r.Context(), w, http.StatusOK, response)
}

// Ready verifica que el bot pueda responder cotizaciones.
// Con la cuota agotada el servicio sigue vivo pero no está listo para tráfico.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := h.service.Status(ctx)

	services := map[string]string{
		"assets":     strconv.Itoa(status.Assets),
		"currencies": strconv.Itoa(status.Currencies),
		"metadata":   strconv.Itoa(status.MetadataEntries),
	}

	if status.Exhausted {
		services["quota"] = "exhausted"
		response := dto.NewHealthResponse("unhealthy", services)
		writeJSONResponse(ctx, w, http.StatusServiceUnavailable, response)
		return
	}

	services["quota"] = "ok"
	services["service"] = "ready"

	response := dto.NewHealthResponse("ready", services)
	writeJSONResponse(ctx, w, http.StatusOK, response)
}

// RegisterRoutes registra los probes
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)
}
