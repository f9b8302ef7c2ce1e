package ports

import (
	"context"

	"github.com/ecoloop/core/internal/domain/entities"
)

// DocumentStore defines the interface for loading and persisting the whole document.
//
// Load and Save are independent calls with no locking or versioning between
// them. Two writers that each Load, mutate and Save can interleave, and the
// later Save silently replaces the earlier one (lost update). Implementations
// do not guard against this.
type DocumentStore interface {
	// Load returns the stored document. On any failure it returns an empty
	// document together with an error wrapping entities.ErrStoreRead.
	Load(ctx context.Context) (*entities.Document, error)
	// Save replaces the stored document. Failures wrap entities.ErrStoreWrite.
	Save(ctx context.Context, doc *entities.Document) error
	// Name identifies the backend in logs and health output.
	Name() string
	Close() error
}

// HealthReporter is implemented by stores that own a connection pool.
type HealthReporter interface {
	HealthCheck() error
	GetConnectionInfo() map[string]interface{}
}

// HealthOf finds the HealthReporter behind store, looking through wrappers
// that expose Unwrap.
func HealthOf(store DocumentStore) (HealthReporter, bool) {
	for store != nil {
		if hr, ok := store.(HealthReporter); ok {
			return hr, true
		}
		u, ok := store.(interface{ Unwrap() DocumentStore })
		if !ok {
			return nil, false
		}
		store = u.Unwrap()
	}
	return nil, false
}
