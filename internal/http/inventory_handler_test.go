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
	"github.com/tienda-labs/tienda/pkg/validator"
)

type stubInventoryService struct {
	createInventory func(ctx context.Context, params service.CreateInventoryParams) (model.InventoryRecord, error)
	getInventory    func(ctx context.Context, productID int64) (service.InventoryView, error)
	purchase        func(ctx context.Context, params service.PurchaseParams) (int64, error)
}

func (s *stubInventoryService) CreateInventory(ctx context.Context, params service.CreateInventoryParams) (model.InventoryRecord, error) {
	return s.createInventory(ctx, params)
}

func (s *stubInventoryService) GetInventory(ctx context.Context, productID int64) (service.InventoryView, error) {
	return s.getInventory(ctx, productID)
}

func (s *stubInventoryService) Purchase(ctx context.Context, params service.PurchaseParams) (int64, error) {
	return s.purchase(ctx, params)
}

func newInventoryRouter(svc service.InventoryService) chi.Router {
	r := chi.NewRouter()
	h := newInventoryHandler(slog.New(slog.DiscardHandler), validator.NewDefaultValidator(), svc)
	h.RegisterRoutes(r)
	return r
}

func TestInventoryHandlerCreateInventory(t *testing.T) {
	t.Run("Should echo the stored record", func(t *testing.T) {
		svc := &stubInventoryService{
			createInventory: func(_ context.Context, params service.CreateInventoryParams) (model.InventoryRecord, error) {
				return model.InventoryRecord{ProductID: params.ProductID, Quantity: params.Quantity}, nil
			},
		}
		r := newInventoryRouter(svc)

		body := `{"data":{"type":"inventarios","attributes":{"producto_id":1,"cantidad":10}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeResource(t, decodeDocument(t, rec))
		assert.Equal(t, "inventarios", res.Type)
		assert.Equal(t, "1", res.ID)

		var attrs map[string]any
		require.NoError(t, json.Unmarshal(res.Attributes, &attrs))
		assert.Equal(t, float64(10), attrs["cantidad"])
	})

	t.Run("Should reject a document without a quantity", func(t *testing.T) {
		r := newInventoryRouter(&stubInventoryService{})

		body := `{"data":{"type":"inventarios","attributes":{"producto_id":1}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Contains(t, doc.Errors[0].Detail, "cantidad")
	})

	t.Run("Should answer conflict for a duplicate record", func(t *testing.T) {
		svc := &stubInventoryService{
			createInventory: func(context.Context, service.CreateInventoryParams) (model.InventoryRecord, error) {
				return model.InventoryRecord{}, apperr.ErrInventoryExists
			},
		}
		r := newInventoryRouter(svc)

		body := `{"data":{"type":"inventarios","attributes":{"producto_id":1,"cantidad":10}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories", strings.NewReader(body)))

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.NotEmpty(t, decodeDocument(t, rec).Errors)
	})
}

func TestInventoryHandlerGetInventory(t *testing.T) {
	t.Run("Should nest the catalog product under the record", func(t *testing.T) {
		svc := &stubInventoryService{
			getInventory: func(_ context.Context, productID int64) (service.InventoryView, error) {
				return service.InventoryView{
					Record:  model.InventoryRecord{ProductID: productID, Quantity: 10},
					Product: model.Product{ID: productID, Name: "Laptop", Price: 999.99},
				}, nil
			},
		}
		r := newInventoryRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventories/1", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeResource(t, decodeDocument(t, rec))
		assert.Equal(t, "inventarios", res.Type)
		assert.Equal(t, "1", res.ID)

		var attrs struct {
			Quantity int64            `json:"cantidad"`
			Product  responseResource `json:"producto"`
		}
		require.NoError(t, json.Unmarshal(res.Attributes, &attrs))
		assert.Equal(t, int64(10), attrs.Quantity)
		assert.Equal(t, "productos", attrs.Product.Type)
		assert.Equal(t, "1", attrs.Product.ID)

		var productAttrs map[string]any
		require.NoError(t, json.Unmarshal(attrs.Product.Attributes, &productAttrs))
		assert.Equal(t, "Laptop", productAttrs["nombre"])
		assert.Equal(t, 999.99, productAttrs["precio"])
	})

	t.Run("Should answer not found with a human readable detail", func(t *testing.T) {
		svc := &stubInventoryService{
			getInventory: func(context.Context, int64) (service.InventoryView, error) {
				return service.InventoryView{}, apperr.ErrInventoryNotFound
			},
		}
		r := newInventoryRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventories/99", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Equal(t, "Inventario no encontrado", doc.Errors[0].Detail)
	})

	t.Run("Should answer bad gateway when the catalog is unreachable", func(t *testing.T) {
		svc := &stubInventoryService{
			getInventory: func(context.Context, int64) (service.InventoryView, error) {
				return service.InventoryView{}, apperr.ErrCatalogUnavailable
			},
		}
		r := newInventoryRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventories/1", nil))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.NotEmpty(t, decodeDocument(t, rec).Errors)
	})

	t.Run("Should answer gateway timeout when the catalog is too slow", func(t *testing.T) {
		svc := &stubInventoryService{
			getInventory: func(context.Context, int64) (service.InventoryView, error) {
				return service.InventoryView{}, apperr.ErrCatalogTimeout
			},
		}
		r := newInventoryRouter(svc)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventories/1", nil))

		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}

func TestInventoryHandlerPurchase(t *testing.T) {
	t.Run("Should echo the new quantity", func(t *testing.T) {
		var got service.PurchaseParams
		svc := &stubInventoryService{
			purchase: func(_ context.Context, params service.PurchaseParams) (int64, error) {
				got = params
				return 7, nil
			},
		}
		r := newInventoryRouter(svc)

		body := `{"data":{"type":"inventarios","attributes":{"cantidad":3}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories/1/purchase", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), got.ProductID)
		assert.Equal(t, int64(3), got.Quantity)

		res := decodeResource(t, decodeDocument(t, rec))
		assert.Equal(t, "1", res.ID)

		var attrs map[string]any
		require.NoError(t, json.Unmarshal(res.Attributes, &attrs))
		assert.Equal(t, float64(7), attrs["cantidad"])
	})

	t.Run("Should reject a non-positive quantity", func(t *testing.T) {
		r := newInventoryRouter(&stubInventoryService{})

		body := `{"data":{"type":"inventarios","attributes":{"cantidad":0}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories/1/purchase", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Contains(t, doc.Errors[0].Detail, "cantidad")
	})

	t.Run("Should answer conflict when stock is insufficient", func(t *testing.T) {
		svc := &stubInventoryService{
			purchase: func(context.Context, service.PurchaseParams) (int64, error) {
				return 0, apperr.ErrInsufficientStock
			},
		}
		r := newInventoryRouter(svc)

		body := `{"data":{"type":"inventarios","attributes":{"cantidad":100}}}`
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories/1/purchase", strings.NewReader(body)))

		require.Equal(t, http.StatusConflict, rec.Code)

		doc := decodeDocument(t, rec)
		require.NotEmpty(t, doc.Errors)
		assert.Equal(t, "Stock insuficiente", doc.Errors[0].Detail)
	})

	t.Run("Should reject a malformed body", func(t *testing.T) {
		r := newInventoryRouter(&stubInventoryService{})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventories/1/purchase", strings.NewReader(`not json`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeDocument(t, rec).Errors)
	})
}
