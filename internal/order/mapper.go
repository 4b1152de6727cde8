package order

import (
	"strings"

	"tokoria-be/internal/cart"
	"tokoria-be/internal/product"
	"tokoria-be/internal/user"
)

// ComposeShippingAddress joins the non-empty address fields of a
// profile into the snapshot string stored on the order.
func ComposeShippingAddress(p *user.Profile) string {
	parts := make([]string, 0, 4)
	for _, field := range []*string{p.Street, p.City, p.Province, p.PostalCode} {
		if field == nil {
			continue
		}
		if v := strings.TrimSpace(*field); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// buildLineItem freezes a cart line against the variant's current
// price. Stock sufficiency is checked by the caller before this and
// re-checked by the conditional decrement at commit time.
func buildLineItem(item cart.CartItem, variant *product.Variant) LineItem {
	return LineItem{
		VariantID:   variant.ID,
		VariantName: variant.Name,
		ProductName: variant.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   variant.Price,
		Subtotal:    variant.Price * int64(item.Quantity),
	}
}
