package engine

import (
	domain "stockwatch/pkg/types"
)

// DiffResult describes one product's availability transition between two
// observations.
type DiffResult struct {
	// Restocked holds variants present now but absent before.
	Restocked domain.VariantSet
	// SoldOut holds variants present before but absent now.
	SoldOut domain.VariantSet
	// FirstObservation is true when the product had no baseline yet. No
	// notification is ever derived from a first observation.
	FirstObservation bool
}

// HasChanges reports whether the diff carries any transition worth
// notifying about.
func (d DiffResult) HasChanges() bool {
	return !d.FirstObservation && (len(d.Restocked) > 0 || len(d.SoldOut) > 0)
}

// Diff computes the availability transition between two observations as
// plain set differences. It is a pure function: it never mutates its
// inputs and identical inputs always produce identical output. Assigning
// the new baseline is the caller's separate step.
func Diff(previous, current domain.VariantSet) (restocked, soldOut domain.VariantSet) {
	restocked = domain.NewVariantSet()
	for v := range current {
		if !previous.Has(v) {
			restocked.Add(v)
		}
	}

	soldOut = domain.NewVariantSet()
	for v := range previous {
		if !current.Has(v) {
			soldOut.Add(v)
		}
	}
	return restocked, soldOut
}

// diffProduct applies Diff against a product's stored state. An
// uninitialized product yields an empty first-observation result: the
// caller must still commit the current set to establish the baseline.
func diffProduct(p *domain.Product, current domain.VariantSet) DiffResult {
	if !p.Initialized {
		return DiffResult{
			Restocked:        domain.NewVariantSet(),
			SoldOut:          domain.NewVariantSet(),
			FirstObservation: true,
		}
	}

	restocked, soldOut := Diff(p.Available, current)
	return DiffResult{Restocked: restocked, SoldOut: soldOut}
}
