package cart

import "time"

// Cart is the read-once input to checkout: all items a user has staged,
// each still referencing a live variant. Prices are not frozen here;
// the order captures the variant's current price at checkout.
type Cart struct {
	UserID uint       `json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID        uint      `json:"id"`
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// denormalized for display
	VariantName string `json:"variant_name"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Stock       int    `json:"stock"`
}

type AddItemParams struct {
	UserID    uint
	VariantID string
	Quantity  int
}

type UpdateQuantityParams struct {
	UserID    uint
	VariantID string
	Quantity  int
}
