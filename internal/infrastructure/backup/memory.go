package backup

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"sync"
)

// MemoryStore es un ObjectStore en memoria para desarrollo y tests
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, entities.ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) PutObject(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}
