package scrape

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	domain "stockwatch/pkg/types"
)

// WooCommerce storefront structure: variations are options of a select
// inside the variations form, unavailable options carry the disabled
// attribute, price is a woocommerce-Price-amount span, and stock status
// lives in a p.stock element.
const (
	wooVariationSelect = "form.variations_form select"
	wooPriceSelector   = "p.price span.woocommerce-Price-amount"
	wooStockSelector   = "p.stock"
	wooTitleSelector   = "h1.product_title"
)

// WooExtractor extracts availability from WooCommerce product pages.
type WooExtractor struct {
	client *resty.Client
}

// NewWooExtractor creates a WooExtractor using the shared client.
func NewWooExtractor(client *resty.Client) *WooExtractor {
	return &WooExtractor{client: client}
}

// FetchAvailability enumerates enabled variation options. Variation-less
// products fall back to the stock status element; a missing status is a
// parse failure, not a sold-out assertion.
func (e *WooExtractor) FetchAvailability(ctx context.Context, url string) (domain.VariantSet, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return nil, err
	}

	sel := doc.Find(wooVariationSelect).First()
	if sel.Length() == 0 {
		return e.simpleProductFallback(doc, url)
	}

	available := domain.NewVariantSet()
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value, ok := opt.Attr("value")
		if !ok || value == "" {
			return // placeholder "Choose an option"
		}
		if _, disabled := opt.Attr("disabled"); disabled {
			return
		}
		available.Add(value)
	})
	return available, nil
}

func (e *WooExtractor) simpleProductFallback(doc *goquery.Document, url string) (domain.VariantSet, error) {
	stock := doc.Find(wooStockSelector).First()
	if stock.Length() == 0 {
		return nil, parseErr(url, errors.New("no variations form or stock element"))
	}

	if stock.HasClass("out-of-stock") || soldOutText(stock.Text()) {
		return domain.NewVariantSet(), nil
	}

	title := strings.TrimSpace(doc.Find(wooTitleSelector).First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return nil, parseErr(url, errors.New("simple product with no title"))
	}
	return domain.NewVariantSet(title), nil
}

// FetchPrice returns the first displayed price amount.
func (e *WooExtractor) FetchPrice(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return "", err
	}

	price := strings.TrimSpace(doc.Find(wooPriceSelector).First().Text())
	if price == "" {
		return "", parseErr(url, errors.New("price element not found"))
	}
	return price, nil
}

// FetchInventoryHint returns the stock status text ("12 in stock" etc).
func (e *WooExtractor) FetchInventoryHint(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return "", err
	}

	hint := strings.TrimSpace(doc.Find(wooStockSelector).First().Text())
	if hint == "" {
		return "", parseErr(url, errors.New("stock element not found"))
	}
	return hint, nil
}

// FetchTitle returns the product heading.
func (e *WooExtractor) FetchTitle(ctx context.Context, url string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, url)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(doc.Find(wooTitleSelector).First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return "", parseErr(url, errors.New("title element not found"))
	}
	return title, nil
}
