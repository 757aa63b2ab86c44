package apperr

import "github.com/tienda-labs/tienda/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ErrProductNotFound   = zerror.NewNotFound("PRODUCT_NOT_FOUND", "Producto no encontrado")
	ErrInventoryNotFound = zerror.NewNotFound("INVENTORY_NOT_FOUND", "Inventario no encontrado")
	ErrInventoryExists   = zerror.NewConflict("INVENTORY_ALREADY_EXISTS", "El inventario ya existe")
	ErrInsufficientStock = zerror.NewConflict("INSUFFICIENT_STOCK", "Stock insuficiente")

	ErrCatalogUnavailable = zerror.NewBadGateway("CATALOG_UNAVAILABLE", "catalog service call failed")
	ErrCatalogMalformed   = zerror.NewBadGateway("CATALOG_MALFORMED_RESPONSE", "catalog service returned an unparseable payload")
	ErrCatalogTimeout     = zerror.NewTimeout("CATALOG_TIMEOUT", "catalog service call timed out")
)
