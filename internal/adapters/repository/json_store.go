package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ecoloop/core/internal/domain/entities"
)

// JSONDocumentStore keeps the document in a single pretty-printed JSON file
type JSONDocumentStore struct {
	fs   afero.Fs
	path string
}

// NewJSONDocumentStore creates a store backed by path on fs
func NewJSONDocumentStore(fs afero.Fs, path string) *JSONDocumentStore {
	return &JSONDocumentStore{fs: fs, path: path}
}

func (s *JSONDocumentStore) Name() string { return "json" }

func (s *JSONDocumentStore) Path() string { return s.path }

// Load reads and parses the file. A missing, unreadable or malformed file
// yields an empty document plus an ErrStoreRead error.
func (s *JSONDocumentStore) Load(ctx context.Context) (*entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return entities.NewDocument(), fmt.Errorf("%w: %w", entities.ErrStoreRead, err)
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return entities.NewDocument(), fmt.Errorf("%w: read %s: %w", entities.ErrStoreRead, s.path, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return entities.NewDocument(), fmt.Errorf("%w: parse %s: %w", entities.ErrStoreRead, s.path, err)
	}

	return doc, nil
}

// Save overwrites the file with the whole document. The new content is written
// to a temporary file first and renamed over the old one.
func (s *JSONDocumentStore) Save(ctx context.Context, doc *entities.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStoreWrite, err)
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStoreWrite, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", entities.ErrStoreWrite, dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", entities.ErrStoreWrite, tmp, err)
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %w", entities.ErrStoreWrite, tmp, err)
	}

	return nil
}

func (s *JSONDocumentStore) Close() error { return nil }
