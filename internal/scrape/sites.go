package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	domain "stockwatch/pkg/types"
)

// DefaultHosts maps the storefront hostnames supported out of the box to
// their platform kind. Config may extend or override this table.
func DefaultHosts() map[string]domain.SiteKind {
	return map[string]domain.SiteKind{
		"vaporhatch.com":  domain.SiteShopify,
		"elementvape.com": domain.SiteWoo,
	}
}

// Selector resolves URLs to site kinds and site kinds to extractor
// implementations. Resolution happens once at record creation; polls use
// the cached SiteKind and skip string matching entirely.
type Selector struct {
	hosts map[string]domain.SiteKind
	table map[domain.SiteKind]Extractor
}

// NewSelector builds a Selector over the given host table. A nil or empty
// table falls back to DefaultHosts.
func NewSelector(client *resty.Client, hosts map[string]domain.SiteKind) *Selector {
	if len(hosts) == 0 {
		hosts = DefaultHosts()
	}

	normalized := make(map[string]domain.SiteKind, len(hosts))
	for h, kind := range hosts {
		normalized[normalizeHost(h)] = kind
	}

	return &Selector{
		hosts: normalized,
		table: map[domain.SiteKind]Extractor{
			domain.SiteShopify: NewShopifyExtractor(client),
			domain.SiteWoo:     NewWooExtractor(client),
		},
	}
}

// Resolve derives the site kind from a URL's host. Unknown hosts resolve
// to SiteUnknown.
func (s *Selector) Resolve(rawURL string) domain.SiteKind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.SiteUnknown
	}
	if kind, ok := s.hosts[normalizeHost(u.Hostname())]; ok {
		return kind
	}
	return domain.SiteUnknown
}

// ForSite returns the extractor implementation for a site kind.
func (s *Selector) ForSite(kind domain.SiteKind) (Extractor, error) {
	ext, ok := s.table[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, kind)
	}
	return ext, nil
}

// ForURL resolves a URL and returns its extractor together with the
// resolved site kind.
func (s *Selector) ForURL(rawURL string) (Extractor, domain.SiteKind, error) {
	kind := s.Resolve(rawURL)
	if kind == domain.SiteUnknown {
		return nil, domain.SiteUnknown, fmt.Errorf("%w: %s", ErrUnsupportedSite, rawURL)
	}
	ext, err := s.ForSite(kind)
	if err != nil {
		return nil, kind, err
	}
	return ext, kind, nil
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}
