package model

// Product is a catalog record. The relationship to an inventory record is
// established by identifier value only, there is no foreign key.
type Product struct {
	ID    int64
	Name  string
	Price float64
}
