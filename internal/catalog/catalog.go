// Package catalog exposes read access to the product catalog, the system of
// record the search index is derived from.
package catalog

import (
	"context"
	"time"

	"github.com/chandan1708/AI-Enabled-E-commerce/internal/domain"
)

// Store reads products from the catalog database. The index is rebuilt from
// these reads; the store never writes.
type Store interface {
	// GetByID returns one product with its category resolved. Returns a
	// not-found error when the ID does not exist.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// ListModifiedSince returns all products whose updated_at is at or
	// after the given time, active or not.
	ListModifiedSince(ctx context.Context, since time.Time) ([]domain.Product, error)

	// ListAll returns the entire catalog for full rebuilds.
	ListAll(ctx context.Context) ([]domain.Product, error)
}
