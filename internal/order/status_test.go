package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// allowedPairs mirrors the transition table independently so a typo in
// either copy fails the exhaustive check below.
var allowedPairs = map[Status][]Status{
	StatusPendingPayment:   {StatusPaymentConfirmed, StatusPaymentFailed, StatusOrderConfirmed, StatusOnHold, StatusCancelled},
	StatusPaymentConfirmed: {StatusOrderConfirmed, StatusOnHold, StatusCancelled},
	StatusOrderConfirmed:   {StatusProcessing, StatusOnHold, StatusCancelled},
	StatusProcessing:       {StatusReadyToShip, StatusOnHold, StatusCancelled},
	StatusReadyToShip:      {StatusShipped, StatusOnHold, StatusCancelled},
	StatusShipped:          {StatusOutForDelivery, StatusOnHold},
	StatusOutForDelivery:   {StatusDelivered, StatusReturned},
	StatusDelivered:        {StatusPaymentReceived, StatusReturned},
	StatusPaymentReceived:  {StatusCompleted},
	StatusReturned:         {StatusRefunded, StatusCompleted},
}

func TestCanTransition_Exhaustive(t *testing.T) {
	statuses := AllStatuses()
	assert.Len(t, statuses, 15)

	allowed := make(map[Status]map[Status]bool, len(allowedPairs))
	for from, tos := range allowedPairs {
		allowed[from] = make(map[Status]bool, len(tos))
		for _, to := range tos {
			allowed[from][to] = true
		}
	}

	// every ordered pair, including self-transitions, is checked so
	// nothing outside the table can slip through
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			assert.Equalf(t, want, CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_SelfTransitionsRejected(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.Falsef(t, CanTransition(s, s), "self transition %s", s)
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusPaymentFailed: true,
		StatusCompleted:     true,
		StatusRefunded:      true,
		StatusCancelled:     true,
		StatusOnHold:        true,
	}

	for _, s := range AllStatuses() {
		assert.Equalf(t, terminal[s], IsTerminal(s), "status %s", s)
	}
}

func TestCancellable(t *testing.T) {
	cancellable := map[Status]bool{
		StatusPendingPayment:   true,
		StatusPaymentConfirmed: true,
		StatusOrderConfirmed:   true,
		StatusProcessing:       true,
		StatusReadyToShip:      true,
	}

	for _, s := range AllStatuses() {
		assert.Equalf(t, cancellable[s], Cancellable(s), "status %s", s)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus(Status("SHIPPING")))
	assert.False(t, ValidStatus(Status("")))
}
