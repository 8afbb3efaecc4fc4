// Package scrape implements site-specific extraction of product page
// availability, price, and inventory signals. One Extractor exists per
// supported storefront platform; the Selector picks one by URL host.
package scrape

import (
	"context"
	"errors"
	"fmt"

	domain "stockwatch/pkg/types"
)

// ErrUnsupportedSite is returned when a URL's host maps to no known
// extractor. Callers can then distinguish "no stock" from "could not
// determine".
var ErrUnsupportedSite = errors.New("unsupported site")

// FailKind classifies a fetch failure.
type FailKind string

// Fetch failure kinds.
const (
	FailNetwork FailKind = "network"
	FailParse   FailKind = "parse"
)

// FetchError is a typed extraction failure. It never escapes the scrape
// boundary as a panic; callers receive it as a value and must treat it as
// "no data this cycle" rather than mutating stored state.
type FetchError struct {
	Kind FailKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failure fetching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func networkErr(url string, err error) *FetchError {
	return &FetchError{Kind: FailNetwork, URL: url, Err: err}
}

func parseErr(url string, err error) *FetchError {
	return &FetchError{Kind: FailParse, URL: url, Err: err}
}

// Extractor fetches availability and display signals from a product page.
// All methods honor the context and the client's request timeout, and
// return a *FetchError (or ErrUnsupportedSite from the Selector) on
// failure.
type Extractor interface {
	// FetchAvailability returns the set of purchasable variant identifiers.
	// An empty set is a successful observation (everything sold out); a
	// FetchError means availability could not be determined this cycle.
	FetchAvailability(ctx context.Context, url string) (domain.VariantSet, error)

	// FetchPrice returns the display price string.
	FetchPrice(ctx context.Context, url string) (string, error)

	// FetchInventoryHint returns a best-effort inventory counter text for
	// sites that expose one. Display only, never a diff input.
	FetchInventoryHint(ctx context.Context, url string) (string, error)

	// FetchTitle returns the product page title, used to resolve display
	// names at registration time.
	FetchTitle(ctx context.Context, url string) (string, error)
}
