package order

// Status is the order lifecycle state. Transitions are validated
// against the allow-list below; everything not listed is rejected.
type Status string

const (
	StatusPendingPayment   Status = "PENDING_PAYMENT"
	StatusPaymentConfirmed Status = "PAYMENT_CONFIRMED"
	StatusPaymentFailed    Status = "PAYMENT_FAILED"
	StatusOrderConfirmed   Status = "ORDER_CONFIRMED"
	StatusOnHold           Status = "ON_HOLD"
	StatusProcessing       Status = "PROCESSING"
	StatusReadyToShip      Status = "READY_TO_SHIP"
	StatusShipped          Status = "SHIPPED"
	StatusOutForDelivery   Status = "OUT_FOR_DELIVERY"
	StatusDelivered        Status = "DELIVERED"
	StatusPaymentReceived  Status = "PAYMENT_RECEIVED"
	StatusCompleted        Status = "COMPLETED"
	StatusReturned         Status = "RETURNED"
	StatusRefunded         Status = "REFUNDED"
	StatusCancelled        Status = "CANCELLED"
)

// transitions is the full legal-transition graph, kept as one static
// table so it can be audited and tested in isolation. States absent
// from the map (or with an empty set) are terminal.
var transitions = map[Status]map[Status]bool{
	StatusPendingPayment: {
		StatusPaymentConfirmed: true,
		StatusPaymentFailed:    true,
		StatusOrderConfirmed:   true,
		StatusOnHold:           true,
		StatusCancelled:        true,
	},
	StatusPaymentConfirmed: {
		StatusOrderConfirmed: true,
		StatusOnHold:         true,
		StatusCancelled:      true,
	},
	StatusOrderConfirmed: {
		StatusProcessing: true,
		StatusOnHold:     true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusReadyToShip: true,
		StatusOnHold:      true,
		StatusCancelled:   true,
	},
	StatusReadyToShip: {
		StatusShipped:   true,
		StatusOnHold:    true,
		StatusCancelled: true,
	},
	StatusShipped: {
		StatusOutForDelivery: true,
		StatusOnHold:         true,
	},
	StatusOutForDelivery: {
		StatusDelivered: true,
		StatusReturned:  true,
	},
	StatusDelivered: {
		StatusPaymentReceived: true,
		StatusReturned:        true,
	},
	StatusPaymentReceived: {
		StatusCompleted: true,
	},
	StatusReturned: {
		StatusRefunded:  true,
		StatusCompleted: true,
	},
}

// CanTransition reports whether moving from one status to another is
// allowed by the transition table.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// IsTerminal reports whether a status has no outbound transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// Cancellable reports whether the table lists Cancelled as a legal
// target of s. User cancellation and the gateway cancel callback both
// consult this, so there is a single source of truth.
func Cancellable(s Status) bool {
	return transitions[s][StatusCancelled]
}

// AllStatuses returns every defined status, in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPendingPayment,
		StatusPaymentConfirmed,
		StatusPaymentFailed,
		StatusOrderConfirmed,
		StatusOnHold,
		StatusProcessing,
		StatusReadyToShip,
		StatusShipped,
		StatusOutForDelivery,
		StatusDelivered,
		StatusPaymentReceived,
		StatusCompleted,
		StatusReturned,
		StatusRefunded,
		StatusCancelled,
	}
}

func ValidStatus(s Status) bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}
