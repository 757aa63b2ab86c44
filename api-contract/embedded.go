package apicontract

import _ "embed"

//go:embed catalog.openapi.yml
var catalogSpecBytes []byte

//go:embed inventory.openapi.yml
var inventorySpecBytes []byte

// GetCatalogSpecBytes returns the embedded catalog service OpenAPI
// specification as a byte slice.
func GetCatalogSpecBytes() []byte {
	return catalogSpecBytes
}

// GetInventorySpecBytes returns the embedded inventory service OpenAPI
// specification as a byte slice.
func GetInventorySpecBytes() []byte {
	return inventorySpecBytes
}
