package logging

import (
	"context"
	"time"
)

// Fields representa campos estructurados para logs
type Fields map[string]interface{}

// LogLevel representa los diferentes niveles de log
type LogLevel string

// Niveles de log disponibles
const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Campos estándar para logs
const (
	FieldTimestamp = "timestamp"
	FieldMessage   = "message"
	FieldRequestID = "request_id"
	FieldService   = "service"
	FieldVersion   = "version"
	FieldDomain    = "domain"
	FieldSource    = "source"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldDuration  = "duration_ms"
	FieldComponent = "component"
)

// Campos para contexto de requests
const (
	FieldHTTPMethod     = "http_method"
	FieldHTTPPath       = "http_path"
	FieldHTTPStatusCode = "http_status_code"
	FieldHTTPUserAgent  = "http_user_agent"
	FieldHTTPRemoteIP   = "http_remote_ip"
)

// Campos para APIs externas
const (
	FieldExternalService  = "external_service"
	FieldExternalEndpoint = "external_endpoint"
	FieldExternalStatus   = "external_status_code"
	FieldExternalDuration = "external_duration_ms"
	FieldOperation        = "operation"
	FieldAttempt          = "attempt"
)

// Campos para cache
const (
	FieldCacheOperation = "cache_operation"
	FieldCacheKey       = "cache_key"
	FieldCacheHit       = "cache_hit"
	FieldCacheSize      = "cache_size_bytes"
)

// Campos para consultas de precio y cuota
const (
	FieldSymbol    = "symbol"
	FieldCurrency  = "currency"
	FieldPrice     = "price"
	FieldKeyIndex  = "key_index"
	FieldKeyCount  = "key_count"
	FieldEntries   = "entries"
	FieldBaseline  = "baseline"
	FieldObjectKey = "object_key"
)

// Campos para seguridad
const (
	FieldClientID  = "client_id"
	FieldClientIP  = "client_ip"
	FieldRateLimit = "rate_limit"
	FieldChatID    = "chat_id"
)

// Operaciones de cache
const (
	CacheOpLoad  = "LOAD"
	CacheOpSave  = "SAVE"
	CacheOpMerge = "MERGE"
)

// FieldBuilder ayuda a construir campos de manera estandarizada
type FieldBuilder struct {
	fields Fields
}

// NewFieldBuilder crea un nuevo builder de campos
func NewFieldBuilder() *FieldBuilder {
	return &FieldBuilder{
		fields: make(Fields),
	}
}

// WithDuration añade duración en milliseconds
func (fb *FieldBuilder) WithDuration(duration time.Duration) *FieldBuilder {
	fb.fields[FieldDuration] = float64(duration.Nanoseconds()) / 1e6
	return fb
}

// WithHTTPInfo añade información HTTP básica
func (fb *FieldBuilder) WithHTTPInfo(method, path string, statusCode int) *FieldBuilder {
	fb.fields[FieldHTTPMethod] = method
	fb.fields[FieldHTTPPath] = path
	if statusCode > 0 {
		fb.fields[FieldHTTPStatusCode] = statusCode
	}
	return fb
}

// WithExternalAPI añade información de API externa
func (fb *FieldBuilder) WithExternalAPI(service, endpoint string, statusCode int, durationMs float64) *FieldBuilder {
	fb.fields[FieldExternalService] = service
	fb.fields[FieldExternalEndpoint] = endpoint
	fb.fields[FieldExternalStatus] = statusCode
	fb.fields[FieldExternalDuration] = durationMs
	return fb
}

// WithCache añade información de cache
func (fb *FieldBuilder) WithCache(operation, key string, hit bool) *FieldBuilder {
	fb.fields[FieldCacheOperation] = operation
	fb.fields[FieldCacheKey] = key
	fb.fields[FieldCacheHit] = hit
	return fb
}

// WithCustomField añade un campo personalizado
func (fb *FieldBuilder) WithCustomField(key string, value interface{}) *FieldBuilder {
	if key != "" && value != nil {
		fb.fields[key] = value
	}
	return fb
}

// Build retorna los campos construidos
func (fb *FieldBuilder) Build() Fields {
	if len(fb.fields) == 0 {
		return nil
	}
	return fb.fields
}

// Context keys para información del request
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	StartTimeKey contextKey = "start_time"
	ChatIDKey    contextKey = "chat_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, StartTimeKey, startTime)
}

// WithChatID marca el contexto con la conversación que originó el request
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, ChatIDKey, chatID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

func GetChatID(ctx context.Context) string {
	if chatID, ok := ctx.Value(ChatIDKey).(string); ok {
		return chatID
	}
	return ""
}
