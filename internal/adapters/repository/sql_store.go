package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ecoloop/core/internal/domain/entities"
)

// SQLDocumentStore keeps the document as one row of the documents table.
// It works on postgres and sqlite; queries are rebound to the driver's placeholders.
type SQLDocumentStore struct {
	db      *sqlx.DB
	name    string
	backend string
}

// NewSQLDocumentStore creates a store for the row identified by name
func NewSQLDocumentStore(db *sqlx.DB, backend, name string) *SQLDocumentStore {
	return &SQLDocumentStore{db: db, name: name, backend: backend}
}

func (s *SQLDocumentStore) Name() string { return s.backend }

func (s *SQLDocumentStore) Load(ctx context.Context) (*entities.Document, error) {
	query := s.db.Rebind(`SELECT body FROM documents WHERE name = ?`)

	var body string
	err := s.db.GetContext(ctx, &body, query, s.name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.NewDocument(), fmt.Errorf("%w: document %q: %w", entities.ErrStoreRead, s.name, fs.ErrNotExist)
		}
		return entities.NewDocument(), fmt.Errorf("%w: select document %q: %w", entities.ErrStoreRead, s.name, err)
	}

	doc, err := decodeDocument([]byte(body))
	if err != nil {
		return entities.NewDocument(), fmt.Errorf("%w: document %q: %w", entities.ErrStoreRead, s.name, err)
	}

	return doc, nil
}

func (s *SQLDocumentStore) Save(ctx context.Context, doc *entities.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStoreWrite, err)
	}

	query := s.db.Rebind(`
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, s.name, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: upsert document %q: %w", entities.ErrStoreWrite, s.name, err)
	}

	return nil
}

// Close is a no-op; the connection pool belongs to the caller
func (s *SQLDocumentStore) Close() error { return nil }
