package localstore

import (
	"context"
	"sync"
)

// MemoryStore is a pure in-memory Store for tests and session-only runs
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte

	// FailSaves makes every Save return SaveErr, for exercising
	// persistence-failure paths in tests.
	FailSaves bool
	SaveErr   error
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// Load implements Store
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Save implements Store
func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		if s.SaveErr != nil {
			return s.SaveErr
		}
		return errSaveFailed
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.snapshots[key] = cp
	return nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}

// Ping implements Store
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close implements Store
func (s *MemoryStore) Close() error { return nil }

var errSaveFailed = &memoryError{"simulated save failure"}

type memoryError struct{ msg string }

func (e *memoryError) Error() string { return "localstore: " + e.msg }
