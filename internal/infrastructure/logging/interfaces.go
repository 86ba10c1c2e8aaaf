package logging

import (
	"context"
)

// Logger define la interfaz principal para logging estructurado
type Logger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)

	InfoWithError(ctx context.Context, message string, err error, fields Fields)
	WarnWithError(ctx context.Context, message string, err error, fields Fields)
	ErrorWithError(ctx context.Context, message string, err error, fields Fields)

	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DomainLogger representa loggers especializados por dominio
type DomainLogger interface {
	Logger
	Domain() string
}

// HTTPLogger especializado para logs relacionados con HTTP
type HTTPLogger interface {
	DomainLogger

	RequestReceived(ctx context.Context, method, path, userAgent, remoteIP string)
	RequestCompleted(ctx context.Context, method, path string, statusCode int, duration float64)
}

// ExternalAPILogger especializado para la API del proveedor de mercado
type ExternalAPILogger interface {
	DomainLogger

	RequestStarted(ctx context.Context, service, endpoint string)
	RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration float64)
	RequestFailed(ctx context.Context, service, endpoint string, statusCode int, err error, duration float64)
	RetryScheduled(ctx context.Context, operation string, attempt uint, err error)
}

// CacheLogger especializado para el cache durable de símbolos
type CacheLogger interface {
	DomainLogger

	Hit(ctx context.Context, key string, operation string)
	Miss(ctx context.Context, key string, operation string)
	Set(ctx context.Context, key string, size int)
	CacheError(ctx context.Context, operation, key string, err error)
}

// BusinessLogger especializado para consultas de precio
type BusinessLogger interface {
	DomainLogger

	QuoteRequested(ctx context.Context, symbol, currency string)
	QuoteServed(ctx context.Context, symbol, currency string, price float64)
	QuoteFailed(ctx context.Context, symbol string, err error)
	ValidationFailed(ctx context.Context, input string, reason string)
	CurrencySubstituted(ctx context.Context, requested, used string)
}

// QuotaLogger especializado para el presupuesto de créditos del proveedor
type QuotaLogger interface {
	DomainLogger

	Failover(ctx context.Context, fromKey, toKey int)
	Exhausted(ctx context.Context, keys int)
	Recovered(ctx context.Context, key int)
}

// SecurityLogger especializado para logs relacionados con seguridad
type SecurityLogger interface {
	DomainLogger

	RateLimitExceeded(ctx context.Context, clientID string, endpoint string)
	InvalidRequest(ctx context.Context, clientIP string, reason string)
}
