package delivery

import (
	"log"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

// Registry hands out the recipient's live connection, if any. Implemented
// by ws.Hub. Emit returns (false, nil) for an offline user.
type Registry interface {
	Emit(userID string, event models.MessageEvent) (bool, error)
}

// Router pushes events to online recipients after persistence completes.
// Delivery is at-most-once and best-effort: no retry, no queue, no
// buffering. Durability belongs to the message store alone.
type Router struct {
	registry Registry
}

// NewRouter constructs a Router.
func NewRouter(registry Registry) *Router {
	return &Router{registry: registry}
}

// Push notifies the recipient of a freshly persisted message. Failures are
// logged and counted, never surfaced to the sender.
func (r *Router) Push(recipientID string, msg models.Message) {
	r.Notify(recipientID, models.MessageEvent{Type: "newMessage", Message: &msg})
}

// Notify emits an arbitrary event to the user's live connection, if one
// exists. An offline user is a no-op.
func (r *Router) Notify(userID string, event models.MessageEvent) {
	delivered, err := r.registry.Emit(userID, event)
	switch {
	case err != nil:
		log.Printf("delivery push failed user=%s event=%s: %v", userID, event.Type, err)
		observability.IncDeliveryPush(event.Type, "failed")
	case !delivered:
		observability.IncDeliveryPush(event.Type, "skipped")
	default:
		observability.IncDeliveryPush(event.Type, "delivered")
	}
}
