package services

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/ports"
)

// DocumentAccess runs load-modify-save cycles against the document store.
//
// Cycles started through the same DocumentAccess are serialized, so one
// process never loses its own updates. Other processes writing the same
// backing store are not coordinated with: their saves can still overwrite
// ours (lost update).
type DocumentAccess struct {
	store  ports.DocumentStore
	logger *logger.Logger
	mu     sync.Mutex
}

// NewDocumentAccess creates a DocumentAccess over store
func NewDocumentAccess(store ports.DocumentStore, logger *logger.Logger) *DocumentAccess {
	return &DocumentAccess{
		store:  store,
		logger: logger,
	}
}

// Read loads the document. Read failures are logged and replaced by an empty
// document; they never reach the caller.
func (a *DocumentAccess) Read(ctx context.Context) *entities.Document {
	doc, err := a.store.Load(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Warnw("Document unreadable, continuing with an empty document", "backend", a.store.Name(), "error", err)
	}
	if doc == nil {
		doc = entities.NewDocument()
	}
	return doc
}

// Update loads the document, applies fn and saves the result. Nothing is
// saved when fn returns an error. Save failures are returned.
func (a *DocumentAccess) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	doc := a.Read(ctx)
	if err := fn(doc); err != nil {
		return err
	}

	return a.store.Save(ctx, doc)
}
