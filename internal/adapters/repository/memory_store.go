package repository

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/ecoloop/core/internal/domain/entities"
)

// MemoryDocumentStore holds the document in process memory.
// Load and Save copy the document so callers never share slices with the store.
type MemoryDocumentStore struct {
	mu  sync.RWMutex
	doc *entities.Document
}

// NewMemoryDocumentStore creates an empty in-memory store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{}
}

func (s *MemoryDocumentStore) Name() string { return "memory" }

func (s *MemoryDocumentStore) Load(ctx context.Context) (*entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return entities.NewDocument(), fmt.Errorf("%w: %w", entities.ErrStoreRead, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return entities.NewDocument(), fmt.Errorf("%w: memory document: %w", entities.ErrStoreRead, fs.ErrNotExist)
	}
	return s.doc.Clone(), nil
}

func (s *MemoryDocumentStore) Save(ctx context.Context, doc *entities.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStoreWrite, err)
	}
	if doc == nil {
		doc = entities.NewDocument()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}

func (s *MemoryDocumentStore) Close() error { return nil }
