package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stockwatch/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListProducts(context.Background(), false)
	require.Error(t, err)
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListProducts(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server returned 500")
	assert.Contains(t, err.Error(), "internal")
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{ID: "p1", Name: "RAZ TN9000", Available: domain.NewVariantSet()},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.ListProducts(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].ID)
}

func TestClient_ListProducts_CustomOnly(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("custom"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.Product{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListProducts(context.Background(), true)
	require.NoError(t, err)
}

func TestClient_RegisterProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			URL  string `json:"url"`
			Name string `json:"name"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://shop.example/new", req.URL)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Product{
			ID:        "p-created",
			Name:      "Scraped Title",
			URL:       req.URL,
			Available: domain.NewVariantSet(),
			Custom:    true,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.RegisterProduct(context.Background(), "https://shop.example/new", "")
	require.NoError(t, err)
	assert.Equal(t, "p-created", result.ID)
	assert.True(t, result.Custom)
}

func TestClient_RemoveProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/products/p1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.RemoveProduct(context.Background(), "p1"))
}

func TestClient_Stock(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p1/stock", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.StockReport{
			ID:      "p1",
			Name:    "RAZ TN9000",
			Price:   "$19.99",
			InStock: []string{"Blue Razz"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	report, err := c.Stock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "$19.99", report.Price)
	assert.Equal(t, []string{"Blue Razz"}, report.InStock)
}

func TestClient_StockByURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stock", r.URL.Path)
		assert.Equal(t, "https://shop.example/adhoc", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.StockReport{InStock: []string{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.StockByURL(context.Background(), "https://shop.example/adhoc")
	require.NoError(t, err)
}

func TestClient_ResyncSendsOperatorHeader(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/resync", r.URL.Path)
		assert.Equal(t, "op-1", r.Header.Get("X-Operator-Id"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "resynced"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithOperatorID("op-1"))
	require.NoError(t, c.Resync(context.Background()))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
