// Package memory implements the ObjectStore port in process memory. It
// backs tests and local development where no bucket is available.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// Store is a concurrency-safe in-memory ObjectStore.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailKeys forces Get to fail for the listed keys, simulating
	// transient storage errors in builder tests.
	FailKeys map[string]bool
}

// New returns an empty store.
func New() *Store {
	return &Store{
		objects:  make(map[string][]byte),
		FailKeys: make(map[string]bool),
	}
}

// List returns keys beneath the prefix in insertion-independent sorted
// order. The S3 adapter makes no ordering promise, so tests relying on
// enumeration order would mask bugs; sorting here keeps the fixture honest
// without hiding the builder's own explicit tie-break.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get reads one object.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailKeys[key] {
		return nil, apperrors.TransientFetch(key, nil)
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, apperrors.TransientFetch(key, nil)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Exists reports object presence.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Put writes an object.
func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]byte, len(body))
	copy(data, body)
	s.objects[key] = data
	return nil
}

// Len reports the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
