package repositories

import (
	"context"
	"fmt"
	"sync"
)

// MemoryCartStorage is an in-memory implementation of CartStorage.
type MemoryCartStorage struct {
	slots map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryCartStorage creates a new instance of MemoryCartStorage.
func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{
		slots: make(map[string][]byte),
	}
}

// Load returns a copy of the bytes stored under key.
func (s *MemoryCartStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, ErrSlotNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under key.
func (s *MemoryCartStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = append([]byte(nil), data...)
	return nil
}
