package client

import (
	"context"
	"net/url"

	"stockwatch/internal/api/handlers"
	domain "stockwatch/pkg/types"
)

// ListProducts returns registered products. With customOnly set, only
// runtime-registered products are returned.
func (c *Client) ListProducts(ctx context.Context, customOnly bool) ([]domain.Product, error) {
	path := "/api/v1/products"
	if customOnly {
		path += "?custom=true"
	}

	var products []domain.Product
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// RegisterProduct registers a URL for monitoring. Name is optional; the
// server scrapes the page title when it is empty.
func (c *Client) RegisterProduct(ctx context.Context, productURL, name string) (*domain.Product, error) {
	req := handlers.RegisterRequest{URL: productURL, Name: name}

	var p domain.Product
	if err := c.post(ctx, "/api/v1/products", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemoveProduct deletes a custom product by id.
func (c *Client) RemoveProduct(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/products/"+url.PathEscape(id))
}

// Stock fetches a live stock snapshot for a registered product.
func (c *Client) Stock(ctx context.Context, id string) (*domain.StockReport, error) {
	var report domain.StockReport
	if err := c.get(ctx, "/api/v1/products/"+url.PathEscape(id)+"/stock", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// StockByURL fetches a live stock snapshot for any supported URL.
func (c *Client) StockByURL(ctx context.Context, productURL string) (*domain.StockReport, error) {
	var report domain.StockReport
	path := "/api/v1/stock?url=" + url.QueryEscape(productURL)
	if err := c.get(ctx, path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Resync triggers the privileged re-baseline action.
func (c *Client) Resync(ctx context.Context) error {
	return c.post(ctx, "/api/v1/resync", nil, nil)
}
