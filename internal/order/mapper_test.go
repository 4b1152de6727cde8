package order

import (
	"testing"

	"tokoria-be/internal/cart"
	"tokoria-be/internal/product"
	"tokoria-be/internal/user"
	"tokoria-be/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestComposeShippingAddress(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		p := &user.Profile{
			Street:     utils.StrPtr("Jl. Melati 5"),
			City:       utils.StrPtr("Bandung"),
			Province:   utils.StrPtr("Jawa Barat"),
			PostalCode: utils.StrPtr("40111"),
		}
		assert.Equal(t, "Jl. Melati 5, Bandung, Jawa Barat, 40111", ComposeShippingAddress(p))
	})

	t.Run("blank and missing fields skipped", func(t *testing.T) {
		p := &user.Profile{
			Street: utils.StrPtr("Jl. Melati 5"),
			City:   utils.StrPtr("   "),
		}
		assert.Equal(t, "Jl. Melati 5", ComposeShippingAddress(p))
	})

	t.Run("empty profile", func(t *testing.T) {
		assert.Equal(t, "", ComposeShippingAddress(&user.Profile{}))
	})
}

func TestBuildLineItem_FreezesCurrentPrice(t *testing.T) {
	item := cart.CartItem{VariantID: "var-1", Quantity: 3, UnitPrice: 40000}
	variant := &product.Variant{
		ID:          "var-1",
		Name:        "Hitam / L",
		ProductName: "Kaos Polos",
		Price:       45000,
	}

	li := buildLineItem(item, variant)
	// the variant's live price wins over whatever the cart displayed
	assert.Equal(t, int64(45000), li.UnitPrice)
	assert.Equal(t, int64(135000), li.Subtotal)
	assert.Equal(t, "Kaos Polos", li.ProductName)
	assert.Equal(t, 3, li.Quantity)
}
