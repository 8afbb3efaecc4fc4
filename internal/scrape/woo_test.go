package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wooVariablePage = `<!doctype html>
<html><body>
  <h1 class="product_title">Hero X 30K</h1>
  <p class="price"><span class="woocommerce-Price-amount">$24.50</span></p>
  <form class="variations_form">
    <select name="attribute_flavor">
      <option value="">Choose an option</option>
      <option value="Blue Razz">Blue Razz</option>
      <option value="Peach" disabled>Peach</option>
      <option value="Watermelon">Watermelon</option>
    </select>
  </form>
  <p class="stock in-stock">14 in stock</p>
</body></html>`

const wooSimpleInStock = `<!doctype html>
<html><body>
  <h1 class="product_title">Simple Pod</h1>
  <p class="price"><span class="woocommerce-Price-amount">$7.00</span></p>
  <p class="stock in-stock">5 in stock</p>
</body></html>`

const wooSimpleOutOfStock = `<!doctype html>
<html><body>
  <h1 class="product_title">Simple Pod</h1>
  <p class="stock out-of-stock">Out of stock</p>
</body></html>`

const wooBarePage = `<!doctype html><html><body><div>nothing</div></body></html>`

func testWooExtractor(t *testing.T) *WooExtractor {
	t.Helper()
	return NewWooExtractor(NewClient(5*time.Second, ""))
}

func TestWooExtractor_FetchAvailability(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, wooVariablePage)
	ext := testWooExtractor(t)

	got, err := ext.FetchAvailability(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Razz", "Watermelon"}, got.Sorted(),
		"disabled options and the placeholder are excluded")
}

func TestWooExtractor_SimpleProductFallback(t *testing.T) {
	t.Parallel()

	t.Run("in stock", func(t *testing.T) {
		t.Parallel()
		srv := serveHTML(t, wooSimpleInStock)
		ext := testWooExtractor(t)

		got, err := ext.FetchAvailability(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{"Simple Pod"}, got.Sorted())
	})

	t.Run("out of stock", func(t *testing.T) {
		t.Parallel()
		srv := serveHTML(t, wooSimpleOutOfStock)
		ext := testWooExtractor(t)

		got, err := ext.FetchAvailability(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("no stock element is a parse failure", func(t *testing.T) {
		t.Parallel()
		srv := serveHTML(t, wooBarePage)
		ext := testWooExtractor(t)

		_, err := ext.FetchAvailability(context.Background(), srv.URL)
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, FailParse, fetchErr.Kind)
	})
}

func TestWooExtractor_FetchPrice(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, wooVariablePage)
	ext := testWooExtractor(t)

	price, err := ext.FetchPrice(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "$24.50", price)
}

func TestWooExtractor_FetchInventoryHint(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, wooVariablePage)
	ext := testWooExtractor(t)

	hint, err := ext.FetchInventoryHint(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "14 in stock", hint)
}

func TestWooExtractor_FetchTitle(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, wooVariablePage)
	ext := testWooExtractor(t)

	title, err := ext.FetchTitle(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hero X 30K", title)
}
