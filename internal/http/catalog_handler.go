package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/internal/service"
	"github.com/tienda-labs/tienda/pkg/jsonapi"
	"github.com/tienda-labs/tienda/pkg/validator"
)

const resourceTypeProducts = "productos"

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

type productAttributes struct {
	Name  string  `json:"nombre"`
	Price float64 `json:"precio"`
}

type productRequest struct {
	Name  *string  `json:"nombre" validate:"required"`
	Price *float64 `json:"precio" validate:"required,gte=0"`
}

type catalogHandler struct {
	responder
	validate   validator.Validator
	catalogSvc service.CatalogService
}

func newCatalogHandler(logger *slog.Logger, validate validator.Validator, catalogSvc service.CatalogService) *catalogHandler {
	return &catalogHandler{
		responder:  responder{logger: logger},
		validate:   validate,
		catalogSvc: catalogSvc,
	}
}

func (h *catalogHandler) RegisterRoutes(r chi.Router) {
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

func (h *catalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	attrs, err := jsonapi.DecodeAttributes[productRequest](r.Body)
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validate.Validate(attrs); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalogSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:  *attrs.Name,
		Price: *attrs.Price,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{Data: productResource(product)})
}

func (h *catalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalogSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{Data: productResource(product)})
}

func (h *catalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	attrs, err := jsonapi.DecodeAttributes[productRequest](r.Body)
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validate.Validate(attrs); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalogSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:    id,
		Name:  *attrs.Name,
		Price: *attrs.Price,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{Data: productResource(product)})
}

func (h *catalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.catalogSvc.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *catalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogSvc.ListProducts(r.Context(), service.ListProductsParams{
		Page: queryInt(r, "page[number]", defaultPageNumber),
		Size: queryInt(r, "page[size]", defaultPageSize),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]jsonapi.Resource, 0, len(page.Products))
	for _, product := range page.Products {
		data = append(data, productResource(product))
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{
		Data: data,
		Meta: &jsonapi.Meta{
			Page:  page.Page,
			Size:  page.Size,
			Total: page.Total,
		},
	})
}

func productResource(product model.Product) jsonapi.Resource {
	return jsonapi.Resource{
		Type: resourceTypeProducts,
		ID:   strconv.FormatInt(product.ID, 10),
		Attributes: productAttributes{
			Name:  product.Name,
			Price: product.Price,
		},
	}
}

// queryInt reads an integer query parameter, falling back to the default on
// absent or malformed input, matching the observed coercion behavior.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
