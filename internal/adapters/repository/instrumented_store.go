package repository

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/infrastructure/metrics"
	"github.com/ecoloop/core/internal/ports"
)

// InstrumentedDocumentStore logs and measures every call to the wrapped store
type InstrumentedDocumentStore struct {
	next    ports.DocumentStore
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewInstrumentedDocumentStore wraps next. m may be nil.
func NewInstrumentedDocumentStore(next ports.DocumentStore, log *logger.Logger, m *metrics.Metrics) *InstrumentedDocumentStore {
	return &InstrumentedDocumentStore{
		next:    next,
		logger:  log.WithComponent("store"),
		metrics: m,
	}
}

func (s *InstrumentedDocumentStore) Name() string { return s.next.Name() }

func (s *InstrumentedDocumentStore) Load(ctx context.Context) (*entities.Document, error) {
	start := time.Now()
	doc, err := s.next.Load(ctx)
	elapsed := time.Since(start)

	// a missing document is the normal first-run state, not a failure
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debugw("Document not found, starting empty", "backend", s.next.Name())
		s.metrics.ObserveStore(s.next.Name(), "load", elapsed.Seconds(), nil)
		return doc, err
	}

	s.logger.LogStoreOperation("load", s.next.Name(), float64(elapsed.Microseconds())/1000, err)
	s.metrics.ObserveStore(s.next.Name(), "load", elapsed.Seconds(), err)
	return doc, err
}

func (s *InstrumentedDocumentStore) Save(ctx context.Context, doc *entities.Document) error {
	start := time.Now()
	err := s.next.Save(ctx, doc)
	elapsed := time.Since(start)

	s.logger.LogStoreOperation("save", s.next.Name(), float64(elapsed.Microseconds())/1000, err)
	s.metrics.ObserveStore(s.next.Name(), "save", elapsed.Seconds(), err)
	return err
}

func (s *InstrumentedDocumentStore) Close() error { return s.next.Close() }

// Unwrap returns the wrapped store
func (s *InstrumentedDocumentStore) Unwrap() ports.DocumentStore { return s.next }
