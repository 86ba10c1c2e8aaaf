package cache

import "errors"

var (
	// ErrUnsupportedBackend indica un valor de cache.backend desconocido
	ErrUnsupportedBackend = errors.New("unsupported cache backend")
	// ErrInvalidBlobName indica un nombre de blob vacío o con separadores de ruta
	ErrInvalidBlobName = errors.New("invalid blob name")
)
