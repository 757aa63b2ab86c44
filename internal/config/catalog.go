package config

import "time"

// Catalog configures the inventory service's outbound dependency on the
// catalog service.
type Catalog struct {
	BaseURL string        `env:"CATALOG_BASE_URL,required"`
	Timeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"5s"`
}
