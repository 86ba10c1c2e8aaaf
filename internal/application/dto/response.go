package dto

import (
	"time"
)

// ListKind identifica qué listado pidió el usuario
type ListKind string

const (
	ListAssets     ListKind = "assets"
	ListCurrencies ListKind = "currencies"
)

// QuoteResult es el resultado de formatear una cotización.
// Message vacío significa que no se pudo producir una cotización;
// Status explica el motivo.
type QuoteResult struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status"`
}

// Reply es la respuesta al front-end de chat. OK es false solo
// cuando la cuota del proveedor está agotada.
type Reply struct {
	Messages []string `json:"messages"`
	Status   string   `json:"status,omitempty"`
	OK       bool     `json:"ok"`
}

// UsageResponse representa el consumo de créditos de la key activa
type UsageResponse struct {
	Report    string `json:"report"`
	KeyIndex  int    `json:"key_index"`
	Exhausted bool   `json:"exhausted"`
}

// StatusResponse expone el estado de cuota, caches y respaldo
type StatusResponse struct {
	Exhausted       bool      `json:"exhausted"`
	ActiveKey       int       `json:"active_key"`
	KeyCount        int       `json:"key_count"`
	Assets          int       `json:"assets"`
	Currencies      int       `json:"currencies"`
	MetadataEntries int       `json:"metadata_entries"`
	BackupBaseline  int       `json:"backup_baseline"`
	Timestamp       time.Time `json:"timestamp"`
}

// ErrorResponse represents a standard error response for endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse represents the health check response with service status
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(error string, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
	}
}

// NewErrorResponseWithCode creates an error response carrying a machine-readable code
func NewErrorResponseWithCode(error string, message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	}
}

// NewHealthResponse creates a health check response
func NewHealthResponse(status string, services map[string]string) *HealthResponse {
	return &HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}
}
