package catalogapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tienda-labs/tienda/internal/config"
	"github.com/tienda-labs/tienda/pkg/zerror"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.Catalog{BaseURL: srv.URL, Timeout: timeout})
}

func errorCode(t *testing.T, err error) string {
	t.Helper()

	var zErr zerror.ZError
	require.True(t, errors.As(err, &zErr), "expected a classified error, got: %v", err)
	return zErr.Code()
}

func TestClientGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decode the product from the envelope", func(t *testing.T) {
		var gotPath string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"type":"productos","id":"7","attributes":{"nombre":"Laptop","precio":999.99}}}`))
		}, time.Second)

		product, err := client.GetProduct(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, "/products/7", gotPath)
		assert.Equal(t, int64(7), product.ID)
		assert.Equal(t, "Laptop", product.Name)
		assert.Equal(t, 999.99, product.Price)
	})

	t.Run("Should map a 404 to product not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[{"detail":"Producto no encontrado"}]}`))
		}, time.Second)

		_, err := client.GetProduct(ctx, 99)

		require.Error(t, err)
		assert.Equal(t, "PRODUCT_NOT_FOUND", errorCode(t, err))
	})

	t.Run("Should classify a server fault as unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, time.Second)

		_, err := client.GetProduct(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_UNAVAILABLE", errorCode(t, err))
	})

	t.Run("Should classify an unreachable host as unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := NewClient(config.Catalog{BaseURL: srv.URL, Timeout: time.Second})

		_, err := client.GetProduct(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_UNAVAILABLE", errorCode(t, err))
	})

	t.Run("Should classify unparseable JSON as malformed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}, time.Second)

		_, err := client.GetProduct(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_MALFORMED_RESPONSE", errorCode(t, err))
	})

	t.Run("Should classify a document without data as malformed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta":{}}`))
		}, time.Second)

		_, err := client.GetProduct(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_MALFORMED_RESPONSE", errorCode(t, err))
	})

	t.Run("Should classify a non-numeric identifier as malformed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"type":"productos","id":"abc","attributes":{}}}`))
		}, time.Second)

		_, err := client.GetProduct(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_MALFORMED_RESPONSE", errorCode(t, err))
	})

	t.Run("Should classify a slow catalog as a timeout", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}, 20*time.Millisecond)

		_, err := client.GetProduct(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_TIMEOUT", errorCode(t, err))
	})

	t.Run("Should classify a cancelled context as a timeout when deadline exceeded", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}, time.Second)

		deadlineCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := client.GetProduct(deadlineCtx, 1)

		require.Error(t, err)
		assert.Equal(t, "CATALOG_TIMEOUT", errorCode(t, err))
	})
}
