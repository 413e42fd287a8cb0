package fabric

import (
	"fmt"
	"strings"
	"time"
)

// Verdict is a consumer handler's disposition for a delivery
type Verdict int

const (
	// Ack acknowledges the message.
	Ack Verdict = iota
	// Requeue rejects the message back onto the queue for redelivery.
	Requeue
	// Dead rejects the message without requeue, routing it to the DLX.
	Dead
)

func (v Verdict) String() string {
	switch v {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Props are optional publish properties. Zero values fall back to
// defaults: persistent delivery, fresh UUID messageId, no priority.
type Props struct {
	Priority      uint8
	CorrelationID string
	Expiration    time.Duration
	MessageID     string
	Headers       map[string]interface{}
}

// Delivery is the consumer-side view of a message
type Delivery struct {
	MessageID     string
	CorrelationID string
	RoutingKey    string
	// Redelivered is set when the broker has handed this message out
	// before. Handlers must already be idempotent either way.
	Redelivered bool
	Headers     map[string]interface{}
	Body        []byte
}

// Handler processes one delivery and returns its disposition. Handlers
// run concurrently up to the configured prefetch.
type Handler func(d Delivery) Verdict

// BatchOutcome is the per-message result inside a failed batch publish
type BatchOutcome struct {
	Index int
	Err   error
}

// BatchError reports which messages of a batch the broker did not accept
type BatchError struct {
	Outcomes []BatchOutcome
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Outcomes))
	for _, o := range e.Outcomes {
		parts = append(parts, fmt.Sprintf("message %d: %v", o.Index, o.Err))
	}
	return fmt.Sprintf("batch publish failed for %d message(s): %s", len(e.Outcomes), strings.Join(parts, "; "))
}

// prefix extracts the routing-key prefix used for metrics labels
func prefix(routingKey string) string {
	if i := strings.IndexByte(routingKey, '.'); i > 0 {
		return routingKey[:i]
	}
	return routingKey
}
