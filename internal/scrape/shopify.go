package scrape

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	domain "stockwatch/pkg/types"
)

// Shopify storefront structure (Dawn-style themes): variant options are
// radio inputs inside a product-form fieldset, disabled options carry the
// "disabled" class, and the regular price lives in a price-item span.
const (
	shopifyVariantFieldset = "fieldset.product-form__input"
	shopifyVariantInput    = `input[type="radio"]`
	shopifyPriceSelector   = "span.price-item--regular"
	shopifyInventory       = ".product__inventory"
	shopifyTitleSelector   = "div.product__title h1"
)

// ShopifyExtractor extracts availability from Shopify product pages.
type ShopifyExtractor struct {
	client *resty.Client
}

// NewShopifyExtractor creates a ShopifyExtractor using the shared client.
func NewShopifyExtractor(client *resty.Client) *ShopifyExtractor {
	return &ShopifyExtractor{client: client}
}

// FetchAvailability enumerates the in-stock variant values. Products with
// no variant fieldset fall back to the inventory text: a non-sold-out
// counter yields a singleton set holding the page title, a sold-out text
// yields an empty set, and no signal at all is a parse failure so callers
// never mistake "unknown" for "sold out".
func (e *ShopifyExtractor) FetchAvailability(ctx context.Context, url string) (domain.VariantSet, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return nil, err
	}

	fieldset := doc.Find(shopifyVariantFieldset).First()
	if fieldset.Length() == 0 {
		return e.singleSKUFallback(doc, url)
	}

	available := domain.NewVariantSet()
	fieldset.Find(shopifyVariantInput).Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("disabled") {
			return
		}
		if value, ok := sel.Attr("value"); ok && value != "" {
			available.Add(value)
		}
	})
	return available, nil
}

func (e *ShopifyExtractor) singleSKUFallback(doc *goquery.Document, url string) (domain.VariantSet, error) {
	inventory := strings.TrimSpace(doc.Find(shopifyInventory).First().Text())
	if inventory == "" {
		return nil, parseErr(url, errors.New("no variant fieldset or inventory signal"))
	}

	if soldOutText(inventory) {
		return domain.NewVariantSet(), nil
	}

	title := strings.TrimSpace(doc.Find(shopifyTitleSelector).First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return nil, parseErr(url, errors.New("single-SKU product with no title"))
	}
	return domain.NewVariantSet(title), nil
}

// FetchPrice returns the regular price text.
func (e *ShopifyExtractor) FetchPrice(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return "", err
	}

	price := strings.TrimSpace(doc.Find(shopifyPriceSelector).First().Text())
	if price == "" {
		return "", parseErr(url, errors.New("price element not found"))
	}
	return price, nil
}

// FetchInventoryHint returns the inventory counter text when the theme
// exposes one.
func (e *ShopifyExtractor) FetchInventoryHint(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return "", err
	}

	hint := strings.TrimSpace(doc.Find(shopifyInventory).First().Text())
	if hint == "" {
		return "", parseErr(url, errors.New("inventory element not found"))
	}
	return hint, nil
}

// FetchTitle returns the product heading.
func (e *ShopifyExtractor) FetchTitle(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(doc.Find(shopifyTitleSelector).First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return "", parseErr(url, errors.New("title element not found"))
	}
	return title, nil
}

func soldOutText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "sold out") || strings.Contains(lower, "out of stock")
}
