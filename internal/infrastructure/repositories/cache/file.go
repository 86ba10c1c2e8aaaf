package cache

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/pkg/utils"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore guarda un archivo por blob dentro de dir; la edad se toma del mtime
type FileStore struct {
	dir string
}

// NewFileStore crea el directorio si no existe
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Load retorna el contenido del blob si existe y no es más viejo que maxAge
func (s *FileStore) Load(ctx context.Context, name string, maxAge time.Duration) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entities.ErrBlobMissing
		}
		return nil, fmt.Errorf("failed to stat blob %s: %w", name, err)
	}

	if isStale(info.ModTime(), maxAge) {
		return nil, entities.ErrBlobMissing
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entities.ErrBlobMissing
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Save escribe el blob completo de forma atómica (archivo temporal + rename)
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close blob %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace blob %s: %w", name, err)
	}
	return nil
}

// Dir retorna el directorio base
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// isStale aplica la política de expiración; maxAge <= 0 nunca expira
func isStale(modifiedAt time.Time, maxAge time.Duration) bool {
	return utils.IsTimestampStale(modifiedAt, maxAge)
}
