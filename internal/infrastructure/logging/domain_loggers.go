package logging

import (
	"context"
)

// BaseDomainLogger implementa funcionalidad común para loggers de dominio
type BaseDomainLogger struct {
	Logger
	domain string
}

func newBase(baseLogger Logger, domain string) *BaseDomainLogger {
	return &BaseDomainLogger{Logger: baseLogger, domain: domain}
}

// Domain retorna el dominio del logger
func (dl *BaseDomainLogger) Domain() string {
	return dl.domain
}

func (dl *BaseDomainLogger) tag(fields Fields) Fields {
	tagged := make(Fields, len(fields)+1)
	for k, v := range fields {
		tagged[k] = v
	}
	tagged[FieldDomain] = dl.domain
	return tagged
}

func (dl *BaseDomainLogger) logWithDomain(ctx context.Context, level LogLevel, message string, fields Fields) {
	fields = dl.tag(fields)
	switch level {
	case LevelDebug:
		dl.Logger.Debug(ctx, message, fields)
	case LevelWarn:
		dl.Logger.Warn(ctx, message, fields)
	case LevelError:
		dl.Logger.Error(ctx, message, fields)
	default:
		dl.Logger.Info(ctx, message, fields)
	}
}

func (dl *BaseDomainLogger) Debug(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelDebug, message, fields)
}

func (dl *BaseDomainLogger) Info(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelInfo, message, fields)
}

func (dl *BaseDomainLogger) Warn(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelWarn, message, fields)
}

func (dl *BaseDomainLogger) Error(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelError, message, fields)
}

func (dl *BaseDomainLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.Logger.WarnWithError(ctx, message, err, dl.tag(fields))
}

func (dl *BaseDomainLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.Logger.ErrorWithError(ctx, message, err, dl.tag(fields))
}

// levelForStatus escala el nivel según el código HTTP
func levelForStatus(statusCode int) LogLevel {
	switch {
	case statusCode >= 500:
		return LevelError
	case statusCode >= 400:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// HTTPDomainLogger especializado para logs HTTP
type HTTPDomainLogger struct {
	*BaseDomainLogger
}

// NewHTTPLogger crea un nuevo logger HTTP
func NewHTTPLogger(baseLogger Logger) HTTPLogger {
	return &HTTPDomainLogger{BaseDomainLogger: newBase(baseLogger, "http")}
}

func (hl *HTTPDomainLogger) RequestReceived(ctx context.Context, method, path, userAgent, remoteIP string) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, 0).
		WithCustomField(FieldHTTPUserAgent, userAgent).
		WithCustomField(FieldHTTPRemoteIP, remoteIP).
		Build()

	hl.Debug(ctx, "HTTP request received", fields)
}

func (hl *HTTPDomainLogger) RequestCompleted(ctx context.Context, method, path string, statusCode int, duration float64) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, statusCode).
		WithCustomField(FieldDuration, duration).
		Build()

	hl.logWithDomain(ctx, levelForStatus(statusCode), "HTTP request completed", fields)
}

// ExternalAPIDomainLogger especializado para APIs externas
type ExternalAPIDomainLogger struct {
	*BaseDomainLogger
}

// NewExternalAPILogger crea un nuevo logger para APIs externas
func NewExternalAPILogger(baseLogger Logger) ExternalAPILogger {
	return &ExternalAPIDomainLogger{BaseDomainLogger: newBase(baseLogger, "external_api")}
}

func (el *ExternalAPIDomainLogger) RequestStarted(ctx context.Context, service, endpoint string) {
	el.Debug(ctx, "External API request started", Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
	})
}

func (el *ExternalAPIDomainLogger) RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration float64) {
	fields := NewFieldBuilder().
		WithExternalAPI(service, endpoint, statusCode, duration).
		Build()

	el.logWithDomain(ctx, levelForStatus(statusCode), "External API request completed", fields)
}

func (el *ExternalAPIDomainLogger) RequestFailed(ctx context.Context, service, endpoint string, statusCode int, err error, duration float64) {
	fields := NewFieldBuilder().
		WithExternalAPI(service, endpoint, statusCode, duration).
		Build()

	el.WarnWithError(ctx, "External API request failed", err, fields)
}

func (el *ExternalAPIDomainLogger) RetryScheduled(ctx context.Context, operation string, attempt uint, err error) {
	el.WarnWithError(ctx, "Provider call failed, retrying", err, Fields{
		FieldOperation: operation,
		FieldAttempt:   attempt,
	})
}

// CacheDomainLogger especializado para cache
type CacheDomainLogger struct {
	*BaseDomainLogger
}

// NewCacheLogger crea un nuevo logger de cache
func NewCacheLogger(baseLogger Logger) CacheLogger {
	return &CacheDomainLogger{BaseDomainLogger: newBase(baseLogger, "cache")}
}

func (cl *CacheDomainLogger) Hit(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache hit", NewFieldBuilder().WithCache(operation, key, true).Build())
}

func (cl *CacheDomainLogger) Miss(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache miss", NewFieldBuilder().WithCache(operation, key, false).Build())
}

func (cl *CacheDomainLogger) Set(ctx context.Context, key string, size int) {
	cl.Debug(ctx, "Cache blob written", Fields{
		FieldCacheKey:       key,
		FieldCacheOperation: CacheOpSave,
		FieldCacheSize:      size,
	})
}

func (cl *CacheDomainLogger) CacheError(ctx context.Context, operation, key string, err error) {
	cl.WarnWithError(ctx, "Cache operation failed", err, Fields{
		FieldCacheOperation: operation,
		FieldCacheKey:       key,
	})
}

// BusinessDomainLogger especializado para lógica de negocio
type BusinessDomainLogger struct {
	*BaseDomainLogger
}

// NewBusinessLogger crea un nuevo logger de negocio
func NewBusinessLogger(baseLogger Logger) BusinessLogger {
	return &BusinessDomainLogger{BaseDomainLogger: newBase(baseLogger, "business")}
}

func (bl *BusinessDomainLogger) QuoteRequested(ctx context.Context, symbol, currency string) {
	bl.Info(ctx, "Quote requested", Fields{FieldSymbol: symbol, FieldCurrency: currency})
}

func (bl *BusinessDomainLogger) QuoteServed(ctx context.Context, symbol, currency string, price float64) {
	bl.Info(ctx, "Quote served", Fields{FieldSymbol: symbol, FieldCurrency: currency, FieldPrice: price})
}

func (bl *BusinessDomainLogger) QuoteFailed(ctx context.Context, symbol string, err error) {
	bl.WarnWithError(ctx, "Quote failed", err, Fields{FieldSymbol: symbol})
}

func (bl *BusinessDomainLogger) ValidationFailed(ctx context.Context, input string, reason string) {
	bl.Info(ctx, "Input validation failed", Fields{"input": input, "reason": reason})
}

func (bl *BusinessDomainLogger) CurrencySubstituted(ctx context.Context, requested, used string) {
	bl.Info(ctx, "Unknown currency substituted", Fields{"requested": requested, FieldCurrency: used})
}

// QuotaDomainLogger especializado para el estado de cuota
type QuotaDomainLogger struct {
	*BaseDomainLogger
}

// NewQuotaLogger crea un nuevo logger de cuota
func NewQuotaLogger(baseLogger Logger) QuotaLogger {
	return &QuotaDomainLogger{BaseDomainLogger: newBase(baseLogger, "quota")}
}

func (ql *QuotaDomainLogger) Failover(ctx context.Context, fromKey, toKey int) {
	ql.Warn(ctx, "API key failover", Fields{"from_key": fromKey, "to_key": toKey})
}

func (ql *QuotaDomainLogger) Exhausted(ctx context.Context, keys int) {
	ql.Error(ctx, "All API keys are over quota", Fields{FieldKeyCount: keys})
}

func (ql *QuotaDomainLogger) Recovered(ctx context.Context, key int) {
	ql.Info(ctx, "API quota available again", Fields{FieldKeyIndex: key})
}

// SecurityDomainLogger especializado para seguridad
type SecurityDomainLogger struct {
	*BaseDomainLogger
}

// NewSecurityLogger crea un nuevo logger de seguridad
func NewSecurityLogger(baseLogger Logger) SecurityLogger {
	return &SecurityDomainLogger{BaseDomainLogger: newBase(baseLogger, "security")}
}

func (sl *SecurityDomainLogger) RateLimitExceeded(ctx context.Context, clientID string, endpoint string) {
	sl.Warn(ctx, "Rate limit exceeded", Fields{
		FieldClientID:  clientID,
		"endpoint":     endpoint,
		FieldRateLimit: "exceeded",
	})
}

func (sl *SecurityDomainLogger) InvalidRequest(ctx context.Context, clientIP string, reason string) {
	sl.Warn(ctx, "Invalid request received", Fields{
		FieldClientIP: clientIP,
		"reason":      reason,
	})
}
