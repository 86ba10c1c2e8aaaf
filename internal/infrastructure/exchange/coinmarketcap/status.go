package coinmarketcap

import (
	"fmt"
	"net/http"
)

// Cause agrupa los códigos de error del proveedor por motivo
type Cause string

const (
	CauseNone             Cause = "none"
	CauseAuthentication   Cause = "authentication"
	CausePaymentRequired  Cause = "payment_required"
	CausePermissionDenied Cause = "permission_denied"
	CauseRateLimit        Cause = "rate_limit"
	CauseUnknown          Cause = "unknown"
)

type statusClass struct {
	httpStatus int
	cause      Cause
}

// statusClasses mapea error_code → clase HTTP y motivo
var statusClasses = map[int]statusClass{
	1001: {http.StatusUnauthorized, CauseAuthentication},     // API key inválida
	1002: {http.StatusUnauthorized, CauseAuthentication},     // API key faltante
	1003: {http.StatusPaymentRequired, CausePaymentRequired}, // plan requiere pago
	1004: {http.StatusPaymentRequired, CausePaymentRequired}, // pago vencido
	1005: {http.StatusForbidden, CausePermissionDenied},      // key requerida
	1006: {http.StatusForbidden, CausePermissionDenied},      // plan no autorizado
	1007: {http.StatusForbidden, CausePermissionDenied},      // key deshabilitada
	1008: {http.StatusTooManyRequests, CauseRateLimit},       // límite por minuto
	1009: {http.StatusTooManyRequests, CauseRateLimit},       // límite diario
	1010: {http.StatusTooManyRequests, CauseRateLimit},       // límite mensual
	1011: {http.StatusTooManyRequests, CauseRateLimit},       // límite por IP
}

// quotaCodes son los códigos que indican créditos agotados para la key
var quotaCodes = map[int]bool{1003: true, 1004: true, 1009: true, 1010: true}

// Status es el bloque status de cada respuesta del proveedor
type Status struct {
	Code    int
	Message string
}

// Classify devuelve la clase HTTP y el motivo de un error_code.
// Los códigos desconocidos no fallan: quedan como CauseUnknown.
func Classify(code int) (int, Cause) {
	if code == 0 {
		return http.StatusOK, CauseNone
	}
	if class, ok := statusClasses[code]; ok {
		return class.httpStatus, class.cause
	}
	return 0, CauseUnknown
}

func (s Status) IsSuccess() bool {
	return s.Code == 0
}

func (s Status) Cause() Cause {
	_, cause := Classify(s.Code)
	return cause
}

// IsQuotaExceeded reports whether the status means the key is out of credits
func (s Status) IsQuotaExceeded() bool {
	return quotaCodes[s.Code]
}

func (s Status) String() string {
	httpStatus, cause := Classify(s.Code)
	switch cause {
	case CauseNone:
		return "HTTP Status: 200 Successful"
	case CauseUnknown:
		return fmt.Sprintf("Error Code: %d. %s", s.Code, s.Message)
	default:
		return fmt.Sprintf("HTTP Status: %d. Error Code: %d. %s", httpStatus, s.Code, s.Message)
	}
}
