package model

// InventoryRecord is the quantity-on-hand counter for one product.
// Quantity may be negative when the negative-stock policy allows it.
type InventoryRecord struct {
	ProductID int64
	Quantity  int64
}
