package order

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentGatewayHosted  PaymentMethod = "GATEWAY_HOSTED"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentGatewayHosted
}

// RequiresGateway reports whether the method needs a hosted payment
// session before the order can be confirmed.
func (m PaymentMethod) RequiresGateway() bool {
	return m == PaymentGatewayHosted
}

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "STANDARD"
	ShippingExpress  ShippingMethod = "EXPRESS"
	ShippingSameDay  ShippingMethod = "SAME_DAY"
)

// fixed per-method surcharge in minor currency units, added to the
// order total at checkout
var shippingSurcharges = map[ShippingMethod]int64{
	ShippingStandard: 15000,
	ShippingExpress:  30000,
	ShippingSameDay:  50000,
}

func (m ShippingMethod) Surcharge() (int64, bool) {
	s, ok := shippingSurcharges[m]
	return s, ok
}

// Order is one checkout transaction. TotalAmount is fixed at creation
// (sum of line subtotals plus the shipping surcharge) and never
// recomputed; cancellation is a status, not a deletion.
type Order struct {
	ID              uuid.UUID      `json:"id"`
	OrderCode       string         `json:"order_code"`
	UserID          uint           `json:"user_id"`
	ShippingAddress string         `json:"shipping_address"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	ShippingMethod  ShippingMethod `json:"shipping_method"`
	Status          Status         `json:"status"`
	Note            string         `json:"note,omitempty"`
	CheckoutURL     *string        `json:"checkout_url,omitempty"`
	GatewayRef      *string        `json:"gateway_ref,omitempty"`
	CancelReason    *string        `json:"cancel_reason,omitempty"`
	TotalAmount     int64          `json:"total_amount"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Items           []LineItem     `json:"items"`
}

// LineItem freezes one purchased variant: quantity and the unit price
// captured at checkout time.
type LineItem struct {
	ID          uint      `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	VariantID   string    `json:"variant_id"`
	VariantName string    `json:"variant_name"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	Subtotal    int64     `json:"subtotal"`
}

type CheckoutInput struct {
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	ShippingMethod ShippingMethod `json:"shipping_method"`
	Note           string         `json:"note"`
}

type FilterInput struct {
	Status   *Status
	Search   *string
	DateFrom *time.Time
	DateTo   *time.Time
}
