package notifier

import "context"

// Logical broadcast topics. The queue topic feeds the staff counter display,
// the display topic feeds the customer-facing screen.
const (
	TopicQueue   = "queue"
	TopicDisplay = "display"
)

// Event types carried on the broadcast channels.
const (
	EventOrderReady     = "order.ready"
	EventOrderDelivered = "order.delivered"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Notifier publishes order-state-change events to a topic. Delivery is
// best-effort, at-most-once per call; callers must not retry the triggering
// operation on a broadcast failure.
type Notifier interface {
	Broadcast(ctx context.Context, topic string, event Event) error
}

// Noop discards every broadcast. Used in tests and when no live channel is
// configured.
type Noop struct{}

func (Noop) Broadcast(ctx context.Context, topic string, event Event) error {
	return nil
}
