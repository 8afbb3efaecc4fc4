package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) stockwatch/1.0"

// NewClient builds the shared HTTP client for extractors. The timeout
// bounds every request so a slow site cannot hang a polling pass.
func NewClient(timeout time.Duration, userAgent string) *resty.Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
}

// fetchDocument retrieves a page and parses it into a goquery document,
// classifying failures as network or parse errors.
func fetchDocument(ctx context.Context, client *resty.Client, url string) (*goquery.Document, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, networkErr(url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, networkErr(url, fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, parseErr(url, err)
	}
	return doc, nil
}
