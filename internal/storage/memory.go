package storage

import (
	"context"
	"sync"

	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
)

// MemoryStore keeps the current dataset in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Dataset
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the current dataset.
func (s *MemoryStore) Save(ctx context.Context, ds *Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ds == nil {
		return apperrors.NewAppValidationError("dataset is nil")
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()
	return nil
}

// Current returns the last saved dataset.
func (s *MemoryStore) Current(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.ErrNoDataset
	}
	return s.current, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops the current dataset.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}
