// Package memory provides an in-process ports.Store backed by a map.
// It is the default backend for local runs and the reference backend in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Store is a goroutine-safe map of keys to values. Values are copied on the
// way in and on the way out so callers never share backing arrays.
type Store struct {
	mu   sync.RWMutex
	data map[ports.Key][]byte
}

var _ ports.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[ports.Key][]byte)}
}

// Create implements ports.Store.
func (s *Store) Create(ctx context.Context, key ports.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, key)
	}
	s.data[key] = clone(value)
	return nil
}

// Read implements ports.Store.
func (s *Store) Read(ctx context.Context, key ports.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return clone(value), nil
}

// Replace implements ports.Store.
func (s *Store) Replace(ctx context.Context, key ports.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	s.data[key] = clone(value)
	return nil
}

// Delete implements ports.Store.
func (s *Store) Delete(ctx context.Context, key ports.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	delete(s.data, key)
	return nil
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
