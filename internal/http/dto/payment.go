package dto

// PaymentEvent is the subset of a payment provider callback that is recorded for audit.
type PaymentEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Created       Timestamp `json:"created"`
}

type PaymentAck struct {
	Received bool `json:"received"`
}
