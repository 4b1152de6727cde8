package product

// Variant is a purchasable SKU: one color/size combination of a
// product, with its own price and stock counter. Stock is only ever
// mutated through conditional updates inside the order transaction.
type Variant struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url,omitempty"`
	Active      bool    `json:"active"`
}

type GetVariantOptions struct {
	VariantID  string
	OnlyActive bool
}
