package domain

import "time"

// PaymentMethod records how a creation request was paid for. The core only
// carries it through for the refund path; pricing lives with the payment
// collaborator.
type PaymentMethod string

const (
	// PaymentFee is the direct-fee path; a timed-out request refunds it.
	PaymentFee PaymentMethod = "fee"
	// PaymentTicket is the burned-ticket path; tickets are not refundable.
	PaymentTicket PaymentMethod = "ticket"
)

// PendingRequest is one in-flight creation request awaiting its randomness
// fulfillment. At most one live request exists per owner at any time.
type PendingRequest struct {
	RequestID     string
	Owner         string
	AltNameSet    bool
	PaymentMethod PaymentMethod
	Fulfilled     bool
	CreatedAt     time.Time
}

// TimedOut reports whether the request has exceeded the recovery window.
func (r PendingRequest) TimedOut(now time.Time, timeout time.Duration) bool {
	return now.After(r.CreatedAt.Add(timeout))
}
