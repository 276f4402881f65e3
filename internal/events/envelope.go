package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	SignalEventVersion = 1
	signalSchema       = "contracts/events/storefront/Signal.v1.enveloped.schema.json"
)

// Envelope is the wire form of a Signal on a broker. PartitionKey is the
// signal group; only processes in the same group react to each other.
type Envelope struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      int64     `json:"sequence"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
}

func NewEnvelope(s Signal, group string) Envelope {
	return Envelope{
		EventName:     string(s.Kind),
		EventVersion:  SignalEventVersion,
		EventID:       s.ID,
		CorrelationID: s.CorrelationID,
		Producer:      s.Origin,
		PartitionKey:  group,
		Sequence:      int64(s.Sequence),
		OccurredAt:    s.OccurredAt,
		Schema:        signalSchema,
	}
}

func (e Envelope) Signal() Signal {
	return Signal{
		Kind:          Kind(e.EventName),
		ID:            e.EventID,
		Origin:        e.Producer,
		Sequence:      uint64(e.Sequence),
		CorrelationID: e.CorrelationID,
		OccurredAt:    e.OccurredAt,
	}
}

func encodeSignal(s Signal, group string) ([]byte, error) {
	body, err := json.Marshal(NewEnvelope(s, group))
	if err != nil {
		return nil, fmt.Errorf("marshal signal envelope: %w", err)
	}
	return body, nil
}

// decodeRemote parses a broker message. ok is false for other groups or
// envelopes this version does not understand.
func decodeRemote(body []byte, group string) (s Signal, ok bool, err error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Signal{}, false, fmt.Errorf("unmarshal signal envelope: %w", err)
	}
	if env.PartitionKey != group || env.EventVersion != SignalEventVersion {
		return Signal{}, false, nil
	}
	s = env.Signal()
	if !s.Kind.Valid() || s.Origin == "" || env.Sequence <= 0 {
		return Signal{}, false, nil
	}
	return s, true, nil
}

// Bridge mirrors local signals to a broker and injects remote ones into the bus.
type Bridge interface {
	Start(ctx context.Context) error
	Close() error
}
