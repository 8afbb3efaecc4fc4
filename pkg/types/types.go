// Package domain defines the core business types for stockwatch.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// SiteKind identifies the storefront platform a product page belongs to.
// It is derived once from the URL host at record creation and never
// re-derived afterwards.
type SiteKind string

// Site kind constants.
const (
	SiteShopify SiteKind = "shopify"
	SiteWoo     SiteKind = "woocommerce"
	SiteUnknown SiteKind = "unknown"
)

// VariantSet is the set of variant identifiers currently purchasable on a
// product page. Identifiers are site-local strings (flavor names, SKU
// labels) and are only meaningful within a single product URL.
//
// On the wire a VariantSet is an ordered list of strings; the JSON codec is
// order-insensitive on input and emits sorted output for determinism.
type VariantSet map[string]struct{}

// NewVariantSet builds a set from the given identifiers.
func NewVariantSet(ids ...string) VariantSet {
	s := make(VariantSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s VariantSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s VariantSet) Add(id string) {
	s[id] = struct{}{}
}

// Clone returns an independent copy of the set.
func (s VariantSet) Clone() VariantSet {
	c := make(VariantSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the members in lexicographic order.
func (s VariantSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same members.
func (s VariantSet) Equal(other VariantSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted JSON list.
func (s VariantSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON list into the set, ignoring input order and
// collapsing duplicates.
func (s *VariantSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewVariantSet(items...)
	return nil
}

// Product is one monitored item. Built-in products come from static
// configuration and are rebuilt on every start; custom products are
// registered at runtime and persisted.
type Product struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	URL  string   `json:"url"`
	Site SiteKind `json:"site"`

	// Available is the last observed availability set. Empty means
	// "everything sold out", which is distinct from never observed.
	Available VariantSet `json:"available"`

	// Initialized is false until the first successful poll. While false no
	// diff is computed and no notification fires.
	Initialized bool `json:"initialized"`

	// Custom marks runtime-registered products; only these are persisted.
	Custom bool `json:"custom"`
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	c := *p
	c.Available = p.Available.Clone()
	return &c
}

const idLength = 12

// DeriveID computes the deterministic registry id for a product URL. The
// same URL always yields the same id, so re-adding a URL is detectable.
func DeriveID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:idLength]
}

// StockReport is an on-demand availability snapshot for display. It is
// produced without consulting or mutating stored state.
type StockReport struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	URL     string   `json:"url"`
	Price   string   `json:"price"`
	InStock []string `json:"in_stock"`

	// InventoryHint is a best-effort numeric counter scraped from sites
	// that expose one. Display only.
	InventoryHint string `json:"inventory_hint,omitempty"`
}
