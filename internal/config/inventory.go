package config

// Inventory holds stock policy knobs for the inventory service.
//
// AllowNegativeStock keeps the historical behavior of letting a purchase
// drive the on-hand quantity below zero. When false, a purchase larger than
// the on-hand quantity is rejected.
type Inventory struct {
	AllowNegativeStock bool `env:"INVENTORY_ALLOW_NEGATIVE_STOCK" envDefault:"true"`
}
