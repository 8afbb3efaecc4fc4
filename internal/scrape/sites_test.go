package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stockwatch/pkg/types"
)

func testSelector(hosts map[string]domain.SiteKind) *Selector {
	return NewSelector(NewClient(5*time.Second, ""), hosts)
}

func TestSelector_Resolve(t *testing.T) {
	t.Parallel()

	sel := testSelector(nil)

	tests := []struct {
		name string
		url  string
		want domain.SiteKind
	}{
		{
			name: "shopify host",
			url:  "https://vaporhatch.com/products/raz-tn9000",
			want: domain.SiteShopify,
		},
		{
			name: "www prefix is ignored",
			url:  "https://www.vaporhatch.com/products/raz-tn9000?variant=1",
			want: domain.SiteShopify,
		},
		{
			name: "woocommerce host",
			url:  "https://www.elementvape.com/hero-x",
			want: domain.SiteWoo,
		},
		{
			name: "unknown host",
			url:  "https://example.com/products/thing",
			want: domain.SiteUnknown,
		},
		{
			name: "unparseable url",
			url:  "://not-a-url",
			want: domain.SiteUnknown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sel.Resolve(tt.url))
		})
	}
}

func TestSelector_ForURL(t *testing.T) {
	t.Parallel()

	sel := testSelector(nil)

	ext, kind, err := sel.ForURL("https://vaporhatch.com/products/thing")
	require.NoError(t, err)
	assert.Equal(t, domain.SiteShopify, kind)
	assert.IsType(t, &ShopifyExtractor{}, ext)

	_, _, err = sel.ForURL("https://nowhere.example/thing")
	require.ErrorIs(t, err, ErrUnsupportedSite)
}

func TestSelector_ConfiguredHostsReplaceDefaults(t *testing.T) {
	t.Parallel()

	sel := testSelector(map[string]domain.SiteKind{
		"myvapeshop.example": domain.SiteShopify,
	})

	assert.Equal(t, domain.SiteShopify, sel.Resolve("https://www.myvapeshop.example/products/x"))
	assert.Equal(t, domain.SiteUnknown, sel.Resolve("https://vaporhatch.com/products/x"),
		"an explicit host table replaces the built-in one")
}

func TestSelector_ForSiteUnknown(t *testing.T) {
	t.Parallel()

	sel := testSelector(nil)
	_, err := sel.ForSite(domain.SiteUnknown)
	require.ErrorIs(t, err, ErrUnsupportedSite)
}
