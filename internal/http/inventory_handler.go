package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/service"
	"github.com/tienda-labs/tienda/pkg/jsonapi"
	"github.com/tienda-labs/tienda/pkg/validator"
)

const resourceTypeInventories = "inventarios"

type createInventoryRequest struct {
	ProductID *int64 `json:"producto_id" validate:"required,gt=0"`
	Quantity  *int64 `json:"cantidad" validate:"required,gte=0"`
}

type purchaseRequest struct {
	Quantity *int64 `json:"cantidad" validate:"required,gt=0"`
}

type inventoryAttributes struct {
	Quantity int64 `json:"cantidad"`
}

// inventoryViewAttributes nests the catalog resource under the record,
// matching the composed read shape.
type inventoryViewAttributes struct {
	Quantity int64            `json:"cantidad"`
	Product  jsonapi.Resource `json:"producto"`
}

type inventoryHandler struct {
	responder
	validate     validator.Validator
	inventorySvc service.InventoryService
}

func newInventoryHandler(logger *slog.Logger, validate validator.Validator, inventorySvc service.InventoryService) *inventoryHandler {
	return &inventoryHandler{
		responder:    responder{logger: logger},
		validate:     validate,
		inventorySvc: inventorySvc,
	}
}

func (h *inventoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/inventories", h.createInventory)
	r.Get("/inventories/{product_id}", h.getInventory)
	r.Post("/inventories/{product_id}/purchase", h.purchase)
}

func (h *inventoryHandler) createInventory(w http.ResponseWriter, r *http.Request) {
	attrs, err := jsonapi.DecodeAttributes[createInventoryRequest](r.Body)
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validate.Validate(attrs); err != nil {
		h.writeError(w, r, err)
		return
	}

	record, err := h.inventorySvc.CreateInventory(r.Context(), service.CreateInventoryParams{
		ProductID: *attrs.ProductID,
		Quantity:  *attrs.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{Data: jsonapi.Resource{
		Type:       resourceTypeInventories,
		ID:         strconv.FormatInt(record.ProductID, 10),
		Attributes: inventoryAttributes{Quantity: record.Quantity},
	}})
}

func (h *inventoryHandler) getInventory(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "product_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.inventorySvc.GetInventory(r.Context(), productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{Data: jsonapi.Resource{
		Type: resourceTypeInventories,
		ID:   strconv.FormatInt(view.Record.ProductID, 10),
		Attributes: inventoryViewAttributes{
			Quantity: view.Record.Quantity,
			Product:  productResource(view.Product),
		},
	}})
}

func (h *inventoryHandler) purchase(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "product_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	attrs, err := jsonapi.DecodeAttributes[purchaseRequest](r.Body)
	if err != nil {
		h.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validate.Validate(attrs); err != nil {
		h.writeError(w, r, err)
		return
	}

	newQuantity, err := h.inventorySvc.Purchase(r.Context(), service.PurchaseParams{
		ProductID: productID,
		Quantity:  *attrs.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeDocument(w, r, http.StatusOK, jsonapi.Document{Data: jsonapi.Resource{
		Type:       resourceTypeInventories,
		ID:         strconv.FormatInt(productID, 10),
		Attributes: inventoryAttributes{Quantity: newQuantity},
	}})
}
