package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ecoloop/core/internal/domain/entities"
)

var errInvalidEncoding = errors.New("document is not valid UTF-8")

// encodeDocument renders the document as two-space indented JSON
func encodeDocument(doc *entities.Document) ([]byte, error) {
	if doc == nil {
		doc = entities.NewDocument()
	}
	data, err := json.MarshalIndent(doc.Clone().Normalize(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// decodeDocument parses a stored document. A corrupt payload is rejected as a
// whole; nothing is salvaged from it.
func decodeDocument(data []byte) (*entities.Document, error) {
	if !utf8.Valid(data) {
		return nil, errInvalidEncoding
	}

	var doc entities.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return doc.Normalize(), nil
}
