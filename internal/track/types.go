package track

import "context"

// Status is the coarse normalized tracking state. Every upstream status
// string is projected onto one of these four buckets; anything unrecognised
// becomes StatusPending.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is one of the four enumerated buckets.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// Event is a single normalized tracking event in upstream emission order.
type Event struct {
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
	Status    string `json:"status"`
}

// Result is the carrier-agnostic tracking record returned to callers. It is
// derived fresh on every lookup and never cached.
type Result struct {
	TrackingNumber    string  `json:"trackingNumber"`
	Carrier           string  `json:"carrier"`
	Status            Status  `json:"status"`
	LastUpdate        string  `json:"lastUpdate"`
	Destination       string  `json:"destination,omitempty"`
	EstimatedDelivery string  `json:"estimatedDelivery,omitempty"`
	Events            []Event `json:"events"`
}

// Provider models an upstream tracking aggregator capable of resolving a
// tracking number into a normalized Result.
type Provider interface {
	Track(ctx context.Context, number, carrier string) (Result, error)
}
