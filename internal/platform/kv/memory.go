package kv

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used in tests and as a last-resort
// fallback when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	lists map[string][][]byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		lists: make(map[string][][]byte),
	}
}

// Get fetches a value, ErrNoKey when absent.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, ErrNoKey
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a value.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Delete removes a key and any list stored under it.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	delete(s.lists, key)
	return nil
}

// Append pushes an element onto the list at key under the store lock.
func (s *MemoryStore) Append(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.lists[key] = append(s.lists[key], stored)
	return nil
}

// Elements returns the list at key oldest first, empty when absent.
func (s *MemoryStore) Elements(ctx context.Context, key string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[key]
	out := make([][]byte, len(list))
	for i, v := range list {
		element := make([]byte, len(v))
		copy(element, v)
		out[i] = element
	}
	return out, nil
}
