package backup

import "errors"

var (
	// ErrUnsupportedBackend indica un backend de respaldo desconocido
	ErrUnsupportedBackend = errors.New("unsupported backup backend")
	// ErrMissingBucket indica que el backend s3 no tiene bucket configurado
	ErrMissingBucket = errors.New("backup bucket is not configured")
)
