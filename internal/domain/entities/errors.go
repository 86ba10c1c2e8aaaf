package entities

import "errors"

// Errores de dominio compartidos entre capas
var (
	// ErrQuotaExhausted indica que todas las API keys superaron su cuota
	ErrQuotaExhausted = errors.New("all API keys are over quota")
	// ErrBlobMissing indica que un blob del cache no existe o expiró
	ErrBlobMissing = errors.New("cache blob missing or expired")
	// ErrObjectNotFound indica que el objeto no existe en el store remoto
	ErrObjectNotFound = errors.New("backup object not found")
	// ErrMisalignedTable indica que símbolos y slugs no tienen el mismo largo
	ErrMisalignedTable = errors.New("symbol and slug lists differ in length")
	// ErrSymbolNotFound indica que el proveedor no devolvió datos para el símbolo
	ErrSymbolNotFound = errors.New("symbol not present in provider response")
)
