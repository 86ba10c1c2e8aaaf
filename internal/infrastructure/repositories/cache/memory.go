package cache

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"sync"
	"time"
)

// blobItem representa un blob en memoria con su fecha de modificación
type blobItem struct {
	data       []byte
	modifiedAt time.Time
}

// MemoryStore implementa BlobStore en memoria local (tests y desarrollo)
type MemoryStore struct {
	items map[string]*blobItem
	mu    sync.RWMutex
	now   func() time.Time
}

// NewMemoryStore crea una nueva instancia de store en memoria
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*blobItem),
		now:   time.Now,
	}
}

// Load obtiene un blob si existe y no expiró
func (s *MemoryStore) Load(ctx context.Context, name string, maxAge time.Duration) ([]byte, error) {
	s.mu.RLock()
	item, exists := s.items[name]
	s.mu.RUnlock()

	if !exists {
		return nil, entities.ErrBlobMissing
	}
	if maxAge > 0 && s.now().Sub(item.modifiedAt) > maxAge {
		return nil, entities.ErrBlobMissing
	}

	out := make([]byte, len(item.data))
	copy(out, item.data)
	return out, nil
}

// Save reemplaza el blob completo
func (s *MemoryStore) Save(ctx context.Context, name string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = &blobItem{data: stored, modifiedAt: s.now()}
	return nil
}

// Touch cambia la fecha de modificación de un blob (método auxiliar para testing)
func (s *MemoryStore) Touch(name string, modifiedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[name]; ok {
		item.modifiedAt = modifiedAt
	}
}

// Size retorna el número de blobs guardados
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
