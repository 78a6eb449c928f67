// Package store defines the string key-value storage the storefront persists
// its client state in, and a small in-memory backend.
package store

import "sync"

// Keys used by the storefront.
const (
	KeyCart             = "cart"
	KeyFilteredProducts = "filteredProducts"
	KeyFilteredIndex    = "filteredIndex"
	KeyLanguage         = "language"
	// KeyCheckout holds an in-progress checkout between CLI invocations.
	KeyCheckout = "checkout"
)

// Storage is a flat string key-value store. Values are opaque to the store;
// callers encode them (JSON in practice).
type Storage interface {
	// Get returns the value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove is a no-op for missing keys.
	Remove(key string) error
	Close() error
}

// Memory is a Storage kept in process memory. Used by tests and as a
// throwaway backend.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: map[string]string{}}
}

func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Memory) Remove(key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Memory) Close() error { return nil }
