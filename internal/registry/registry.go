// Package registry holds the in-memory product table. It is the single
// mutual-exclusion domain for product mutation: registration, removal, and
// the scheduler's per-poll write-back all serialize on one mutex, so a
// registration racing a polling pass can never interleave with that pass's
// commit of a record being deleted.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"stockwatch/internal/store"
	domain "stockwatch/pkg/types"
)

// Registry errors surfaced to the command boundary.
var (
	ErrDuplicateURL = errors.New("url already monitored")
	ErrNotFound     = errors.New("product not found")
)

// Registry is the owned product table. All access goes through its
// methods; callers receive copies, never aliases into the table.
type Registry struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	store    store.Store
	log      *slog.Logger
}

// New creates an empty Registry backed by the given store.
func New(s store.Store, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		products: make(map[string]*domain.Product),
		store:    s,
		log:      log,
	}
}

// Seed installs built-in products. Called once at startup before
// LoadCustom; built-ins always start uninitialized so the first pass
// establishes a baseline without notifying.
func (r *Registry) Seed(builtins []domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range builtins {
		p := builtins[i].Clone()
		p.Custom = false
		p.Initialized = false
		if p.Available == nil {
			p.Available = domain.NewVariantSet()
		}
		r.products[p.ID] = p
	}
}

// LoadCustom merges persisted custom products into the table. Custom
// entries never collide with built-in ids because custom ids are URL
// hashes; a collision is logged and the persisted entry wins.
func (r *Registry) LoadCustom(ctx context.Context) error {
	loaded, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading custom products: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range loaded {
		p := loaded[i].Clone()
		if _, exists := r.products[p.ID]; exists {
			r.log.Warn("custom product shadows existing id", "id", p.ID, "url", p.URL)
		}
		r.products[p.ID] = p
	}
	return nil
}

// Add registers a product. It fails with ErrDuplicateURL when any entry,
// custom or built-in, already targets the exact same URL string, and
// persists the custom set write-through before returning.
func (r *Registry) Add(ctx context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.URL == p.URL {
			return fmt.Errorf("%w: %s", ErrDuplicateURL, p.URL)
		}
	}
	if _, exists := r.products[p.ID]; exists {
		return fmt.Errorf("%w: id %s", ErrDuplicateURL, p.ID)
	}

	stored := p.Clone()
	if stored.Available == nil {
		stored.Available = domain.NewVariantSet()
	}
	r.products[stored.ID] = stored

	if stored.Custom {
		r.persistLocked(ctx)
	}
	return nil
}

// Remove deletes a custom product by id and persists the change. Built-in
// products are not removable; attempting it reports ErrNotFound.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || !p.Custom {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	delete(r.products, id)
	r.persistLocked(ctx)
	return nil
}

// Get returns a copy of the product with the given id.
func (r *Registry) Get(id string) (*domain.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// FindByURL returns a copy of the product targeting the exact URL string.
func (r *Registry) FindByURL(url string) (*domain.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.URL == url {
			return p.Clone(), true
		}
	}
	return nil, false
}

// List returns copies of all products ordered by id.
func (r *Registry) List() []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListCustom returns copies of the custom products ordered by id.
func (r *Registry) ListCustom() []domain.Product {
	all := r.List()
	out := all[:0]
	for _, p := range all {
		if p.Custom {
			out = append(out, p)
		}
	}
	return out
}

// CommitObservation records a successful poll: the product's availability
// set becomes current and the initialized flag is raised. The id may have
// been removed since the poll started, in which case the commit is a
// silent no-op. Custom products are persisted so the baseline survives a
// restart.
func (r *Registry) CommitObservation(ctx context.Context, id string, current domain.VariantSet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return
	}

	p.Available = current.Clone()
	p.Initialized = true

	if p.Custom {
		r.persistLocked(ctx)
	}
}

// ClearBaselines lowers every product's initialized flag so the next pass
// re-establishes baselines without notifying.
func (r *Registry) ClearBaselines(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var hasCustom bool
	for _, p := range r.products {
		p.Initialized = false
		if p.Custom {
			hasCustom = true
		}
	}

	if hasCustom {
		r.persistLocked(ctx)
	}
}

// persistLocked writes the custom subset through to the store. Callers
// must hold the mutex. Persistence failures are logged, never fatal; the
// in-memory table stays authoritative.
func (r *Registry) persistLocked(ctx context.Context) {
	customs := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Custom {
			customs = append(customs, *p.Clone())
		}
	}

	if err := r.store.Save(ctx, customs); err != nil {
		r.log.Error("persisting custom products failed", "error", err)
	}
}
