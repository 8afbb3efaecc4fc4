// Package store defines the persistence abstraction for custom products.
// Business logic depends on the Store interface, never on a concrete
// implementation, so the registry and engine are testable without a
// filesystem.
package store

import (
	"context"

	domain "stockwatch/pkg/types"
)

// Store persists the custom subset of the product registry. Built-in
// products are rebuilt from configuration on every start and never pass
// through a Store.
type Store interface {
	// Save writes the full set of custom products, replacing any previous
	// contents.
	Save(ctx context.Context, products []domain.Product) error

	// Load reads all persisted custom products. A missing or unreadable
	// file yields an empty slice, never an error that would block startup.
	Load(ctx context.Context) ([]domain.Product, error)
}
