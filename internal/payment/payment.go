package payment

import "context"

// Gateway abstracts the hosted-checkout payment provider. The order
// service only ever talks to this interface; the HTTP client lives in
// client.go.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	CancelSession(ctx context.Context, gatewayRef, reason string) error
	// InterpretCallback validates a callback payload and returns the
	// payment outcome it reports, or nil when the payload is not a
	// recognizable payment event (bad signature, cancellation, noise).
	InterpretCallback(cb Callback) *PaymentInfo
	VerifySignature(cb Callback) error
}

type SessionRequest struct {
	OrderCode   string        `json:"orderCode"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
	Items       []SessionItem `json:"items"`
}

type SessionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Session is the hosted checkout page the buyer is redirected to.
// GatewayRef is the provider's reference for the session, stored on the
// order and used to locate it when the callback arrives.
type Session struct {
	CheckoutURL string `json:"checkout_url"`
	GatewayRef  string `json:"gateway_ref"`
}

// Callback carries the query parameters the gateway appends when it
// notifies us of a session outcome.
type Callback struct {
	Code      string `json:"code"`
	SessionID string `json:"id"`
	Cancel    bool   `json:"cancel"`
	Status    string `json:"status"`
	OrderCode string `json:"orderCode"`
	Signature string `json:"signature"`
}

type PaymentInfo struct {
	GatewayRef string
	Status     string
}

const (
	// statuses the gateway reports in callbacks
	CallbackStatusPaid      = "PAID"
	CallbackStatusCancelled = "CANCELLED"

	callbackCodeSuccess = "00"
)
