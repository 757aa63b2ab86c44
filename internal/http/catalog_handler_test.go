package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/internal/service"
	"github.com/tienda-labs/tienda/pkg/jsonapi"
	"github.com/tienda-labs/tienda/pkg/validator"
)

type stubCatalogService struct {
	createProduct func(ctx context.Context, params service.CreateProductParams) (model.Product, error)
	getProduct    func(ctx context.Context, id int64) (model.Product, error)
	updateProduct func(ctx context.Context, params service.UpdateProductParams) (model.Product, error)
	deleteProduct func(ctx context.Context, id int64) error
	listProducts  func(ctx context.Context, params service.ListProductsParams) (service.ProductPage, error)
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	return s.createProduct(ctx, params)
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return s.getProduct(ctx, id)
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, params service.UpdateProductParams) (model.Product, error) {
	return s.updateProduct(ctx, params)
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteProduct(ctx, id)
}

func (s *stubCatalogService) ListProducts(ctx context.Context, params service.ListProductsParams) (service.ProductPage, error) {
	return s.listProducts(ctx, params)
}

func newCatalogRouter(svc service.CatalogService) chi.Router {
	r := chi.NewRouter()
	h := newCatalogHandler(slog.New(slog.DiscardHandler), validator.NewDefaultValidator(), svc)
	h.RegisterRoutes(r)
	return r
}

type responseDocument struct {
	Data   json.RawMessage `json:"data"`
	Meta   *jsonapi.Meta   `json:"meta"`
	Errors []jsonapi.Error `json:"errors"`
}

type responseResource struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

func decodeDocument(t *testing.T, rec *httptest.ResponseRecorder) responseDocument {
	t.Helper()

	var doc responseDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func decodeResource(t *testing.T, doc responseDocument) responseResource {
	t.Helper()

	var res responseResource
	require.NoError(t, json.Unmarshal(doc.Data, &res))
	return res
}

func TestCatalogHandlerCreateProduct(t *testing.T) {
	t.Run("Should echo the stored product in the envelope", func(t *testing.T) {
		svc := &stubCatalogService{
			createProduct: func(_ context.Context, params service.CreateProductParams) (model.Product, error) {
				return model.Product{ID: 1, Name: params.Name, Price: params.Price}, nil
			},
		}
		r := newCatalogRouter(svc)

		body := `{"data":{"type":"productos","attributes":{"nombre":"Laptop","precio":999.99}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeResource(t, decodeDocument(t, rec))
		assert.Equal(t, "productos", res.Type)
		assert.Equal(t, "1", res.ID)

		var attrs map[string]any
		require.NoError(t, json.Unmarshal(res.Attributes, &attrs))
		assert.Equal(t, "Laptop", attrs["nombre"])
		assert.Equal(t, 999.99, attrs["precio"])
	})

	t.Run("Should reject a document without a name", func(t *testing.T) {
		r := newCatalogRouter(&stubCatalogService{})

		body := `{"data":{"type":"productos","attributes":{"precio":10}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Contains(t, doc.Errors[0].Detail, "nombre")
	})

	t.Run("Should reject a document without attributes", func(t *testing.T) {
		r := newCatalogRouter(&stubCatalogService{})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"data":{}}`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeDocument(t, rec).Errors)
	})

	t.Run("Should reject a negative price", func(t *testing.T) {
		r := newCatalogRouter(&stubCatalogService{})

		body := `{"data":{"type":"productos","attributes":{"nombre":"Laptop","precio":-1}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Contains(t, doc.Errors[0].Detail, "precio")
	})
}

func TestCatalogHandlerGetProduct(t *testing.T) {
	t.Run("Should return the product", func(t *testing.T) {
		svc := &stubCatalogService{
			getProduct: func(_ context.Context, id int64) (model.Product, error) {
				return model.Product{ID: id, Name: "Laptop", Price: 999.99}, nil
			},
		}
		r := newCatalogRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/7", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeResource(t, decodeDocument(t, rec))
		assert.Equal(t, "7", res.ID)
	})

	t.Run("Should answer not found with a human readable detail", func(t *testing.T) {
		svc := &stubCatalogService{
			getProduct: func(_ context.Context, id int64) (model.Product, error) {
				return model.Product{}, apperr.ErrProductNotFound
			},
		}
		r := newCatalogRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/99", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Equal(t, "Producto no encontrado", doc.Errors[0].Detail)
	})

	t.Run("Should reject a non-numeric identifier", func(t *testing.T) {
		r := newCatalogRouter(&stubCatalogService{})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeDocument(t, rec).Errors)
	})
}

func TestCatalogHandlerUpdateProduct(t *testing.T) {
	t.Run("Should echo the requested values even for an unknown identifier", func(t *testing.T) {
		svc := &stubCatalogService{
			updateProduct: func(_ context.Context, params service.UpdateProductParams) (model.Product, error) {
				return model.Product{ID: params.ID, Name: params.Name, Price: params.Price}, nil
			},
		}
		r := newCatalogRouter(svc)

		body := `{"data":{"type":"productos","attributes":{"nombre":"Laptop Pro","precio":1299}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/99", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeResource(t, decodeDocument(t, rec))
		assert.Equal(t, "99", res.ID)

		var attrs map[string]any
		require.NoError(t, json.Unmarshal(res.Attributes, &attrs))
		assert.Equal(t, "Laptop Pro", attrs["nombre"])
	})
}

func TestCatalogHandlerDeleteProduct(t *testing.T) {
	deletes := 0
	svc := &stubCatalogService{
		deleteProduct: func(context.Context, int64) error {
			deletes++
			return nil
		},
	}
	r := newCatalogRouter(svc)

	for range 2 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/1", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	}
	assert.Equal(t, 2, deletes)
}

func TestCatalogHandlerListProducts(t *testing.T) {
	t.Run("Should return the page with its meta", func(t *testing.T) {
		svc := &stubCatalogService{
			listProducts: func(_ context.Context, params service.ListProductsParams) (service.ProductPage, error) {
				return service.ProductPage{
					Products: []model.Product{{ID: 1, Name: "Laptop", Price: 999.99}},
					Page:     params.Page,
					Size:     params.Size,
					Total:    31,
				}, nil
			},
		}
		r := newCatalogRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?page%5Bnumber%5D=2&page%5Bsize%5D=5", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotNil(t, doc.Meta)
		assert.Equal(t, 2, doc.Meta.Page)
		assert.Equal(t, 5, doc.Meta.Size)
		assert.Equal(t, int64(31), doc.Meta.Total)

		var resources []responseResource
		require.NoError(t, json.Unmarshal(doc.Data, &resources))
		require.Len(t, resources, 1)
		assert.Equal(t, "productos", resources[0].Type)
	})

	t.Run("Should fall back to default paging on malformed parameters", func(t *testing.T) {
		var got service.ListProductsParams
		svc := &stubCatalogService{
			listProducts: func(_ context.Context, params service.ListProductsParams) (service.ProductPage, error) {
				got = params
				return service.ProductPage{Page: params.Page, Size: params.Size}, nil
			},
		}
		r := newCatalogRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?page%5Bnumber%5D=zero&page%5Bsize%5D=-3", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, defaultPageNumber, got.Page)
		assert.Equal(t, defaultPageSize, got.Size)
	})
}
