package events

import "time"

// Kind names a payload-less signal telling sibling views to reload.
type Kind string

const (
	KindCartUpdated      Kind = "cart.updated"
	KindNewCartRequested Kind = "cart.new_requested"
	KindOrderPlaced      Kind = "order.placed"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCartUpdated, KindNewCartRequested, KindOrderPlaced:
		return true
	default:
		return false
	}
}

// Signal carries no payload. Sequence is monotonic per Origin and defines delivery order.
type Signal struct {
	Kind          Kind      `json:"kind"`
	ID            string    `json:"id"`
	Origin        string    `json:"origin"`
	Sequence      uint64    `json:"sequence"`
	CorrelationID string    `json:"correlationId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}
