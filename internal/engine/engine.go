// Package engine orchestrates polling, diffing, and alerting for the
// product registry.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stockwatch/internal/metrics"
	"stockwatch/internal/notify"
	"stockwatch/internal/registry"
	"stockwatch/internal/scrape"
	domain "stockwatch/pkg/types"
)

const priceUnknown = "Unknown"

// SiteSelector resolves URLs and site kinds to extractor implementations.
// Satisfied by *scrape.Selector; the engine only needs this subset.
type SiteSelector interface {
	Resolve(rawURL string) domain.SiteKind
	ForSite(kind domain.SiteKind) (scrape.Extractor, error)
	ForURL(rawURL string) (scrape.Extractor, domain.SiteKind, error)
}

// Engine drives the stock-tracking state machine: it polls every registry
// entry, computes availability diffs, emits notifications, and commits the
// new baseline.
type Engine struct {
	registry  *registry.Registry
	sites     SiteSelector
	notifier  notify.Notifier
	channelID string
	log       *slog.Logger
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(
	reg *registry.Registry,
	sites SiteSelector,
	n notify.Notifier,
	channelID string,
	opts ...Option,
) *Engine {
	e := &Engine{
		registry:  reg,
		sites:     sites,
		notifier:  n,
		channelID: channelID,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// RunPass polls every registry entry once. A single product's failure is
// logged and skipped; it never aborts the rest of the pass. Only context
// cancellation stops a pass early.
func (e *Engine) RunPass(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.PollPassDuration.Observe(time.Since(start).Seconds())
	}()

	products := e.registry.List()
	e.log.Info("polling pass starting", "products", len(products))

	for i := range products {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p := &products[i]
		if err := e.pollProduct(ctx, p); err != nil {
			e.log.Error("product poll failed", "id", p.ID, "url", p.URL, "error", err)
			metrics.FetchFailuresTotal.WithLabelValues(string(p.Site)).Inc()
		}
	}

	e.log.Info("polling pass finished", "duration", time.Since(start))
	return nil
}

// pollProduct fetches one product's availability and applies the diff. On
// any fetch failure the stored state is left untouched so the next
// successful poll diffs against the last good baseline.
func (e *Engine) pollProduct(ctx context.Context, p *domain.Product) error {
	metrics.ProductsPolledTotal.Inc()

	ext, err := e.sites.ForSite(p.Site)
	if err != nil {
		return err
	}

	current, err := ext.FetchAvailability(ctx, p.URL)
	if err != nil {
		return err
	}

	result := diffProduct(p, current)

	if result.FirstObservation {
		e.registry.CommitObservation(ctx, p.ID, current)
		e.log.Info("baseline established", "id", p.ID, "variants", len(current))
		return nil
	}

	if result.HasChanges() {
		e.notifyChanges(ctx, p, ext, result)
	}

	// Commit on every successful fetch, changed or not, so a transient
	// one-sided miss cannot manufacture a delta next cycle.
	e.registry.CommitObservation(ctx, p.ID, current)
	return nil
}

func (e *Engine) notifyChanges(ctx context.Context, p *domain.Product, ext scrape.Extractor, result DiffResult) {
	price := e.bestEffortPrice(ctx, ext, p.URL)
	hint := e.bestEffortHint(ctx, ext, p.URL)

	if len(result.Restocked) > 0 {
		metrics.RestockEventsTotal.Inc()
		e.send(ctx, formatRestock(p.Name, price, hint, p.URL, result.Restocked.Sorted()))
	}
	if len(result.SoldOut) > 0 {
		metrics.SoldOutEventsTotal.Inc()
		e.send(ctx, formatSoldOut(p.Name, price, hint, p.URL, result.SoldOut.Sorted()))
	}
}

func (e *Engine) send(ctx context.Context, text string) {
	if err := e.notifier.Send(ctx, e.channelID, text); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		e.log.Error("notification failed", "error", err)
	}
}

func (e *Engine) bestEffortPrice(ctx context.Context, ext scrape.Extractor, url string) string {
	price, err := ext.FetchPrice(ctx, url)
	if err != nil {
		return priceUnknown
	}
	return price
}

func (e *Engine) bestEffortHint(ctx context.Context, ext scrape.Extractor, url string) string {
	hint, err := ext.FetchInventoryHint(ctx, url)
	if err != nil {
		return ""
	}
	return hint
}

// Register creates a custom product for a URL. The URL must resolve to a
// supported site and must not already be monitored. When no display name
// is given the page title is scraped; a priming fetch establishes the
// baseline immediately when it succeeds, otherwise the first scheduled
// pass does.
func (e *Engine) Register(ctx context.Context, url, name string) (*domain.Product, error) {
	if existing, ok := e.registry.FindByURL(url); ok {
		return nil, fmt.Errorf("%w: %s (id %s)", registry.ErrDuplicateURL, url, existing.ID)
	}

	ext, kind, err := e.sites.ForURL(url)
	if err != nil {
		return nil, err
	}

	if name == "" {
		title, titleErr := ext.FetchTitle(ctx, url)
		if titleErr != nil {
			e.log.Warn("title fetch failed, using url as name", "url", url, "error", titleErr)
			title = url
		}
		name = title
	}

	p := &domain.Product{
		ID:        domain.DeriveID(url),
		Name:      name,
		URL:       url,
		Site:      kind,
		Available: domain.NewVariantSet(),
		Custom:    true,
	}

	if current, primeErr := ext.FetchAvailability(ctx, url); primeErr == nil {
		p.Available = current
		p.Initialized = true
	} else {
		e.log.Warn("priming fetch failed, baseline deferred", "url", url, "error", primeErr)
	}

	if err := e.registry.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Snapshot fetches a live availability report for a URL without touching
// stored state. Fetch failures surface to the caller as typed errors so
// "could not determine" is never rendered as "sold out".
func (e *Engine) Snapshot(ctx context.Context, url string) (*domain.StockReport, error) {
	ext, _, err := e.sites.ForURL(url)
	if err != nil {
		return nil, err
	}

	available, err := ext.FetchAvailability(ctx, url)
	if err != nil {
		return nil, err
	}

	report := &domain.StockReport{
		Name:    url,
		URL:     url,
		Price:   e.bestEffortPrice(ctx, ext, url),
		InStock: available.Sorted(),
	}
	if hint, hintErr := ext.FetchInventoryHint(ctx, url); hintErr == nil {
		report.InventoryHint = hint
	}
	return report, nil
}

// SnapshotProduct fetches a live report for a registered product.
func (e *Engine) SnapshotProduct(ctx context.Context, id string) (*domain.StockReport, error) {
	p, ok := e.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", registry.ErrNotFound, id)
	}

	report, err := e.Snapshot(ctx, p.URL)
	if err != nil {
		return nil, err
	}
	report.ID = p.ID
	report.Name = p.Name
	return report, nil
}

// Resync clears every product's baseline and immediately runs a pass, so
// all baselines are re-established without emitting notifications. Gated
// behind the operator check at the command boundary.
func (e *Engine) Resync(ctx context.Context) error {
	e.log.Info("resync requested, clearing baselines")
	e.registry.ClearBaselines(ctx)
	return e.RunPass(ctx)
}
