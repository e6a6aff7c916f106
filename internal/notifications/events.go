package notifications

import (
	"context"
	"encoding/json"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

// Event attribute key and values used on the orders topic.
const (
	AttrEventType = "event_type"

	EventOrderPlaced   = "order.placed"
	EventShopVerified  = "shop.verified"
	EventShopSuspended = "shop.suspended"
)

// OrderPlacedEvent is the payload published to the orders topic when a
// buyer places an order touching the shop.
type OrderPlacedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	OrderID      uuid.UUID `json:"order_id"`
	Reference    string    `json:"reference"`
	ShopID       uuid.UUID `json:"shop_id"`
	CustomerName string    `json:"customer_name"`
	ItemCount    int       `json:"item_count"`
	ShopTotal    int       `json:"shop_total"`
	PlacedAt     time.Time `json:"placed_at"`
}

// ShopModerationEvent is the payload published when an admin verifies or
// suspends a shop.
type ShopModerationEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	ShopID    uuid.UUID `json:"shop_id"`
	ShopName  string    `json:"shop_name"`
	ShopEmail string    `json:"shop_email,omitempty"`
	Status    string    `json:"status"`
	DecidedAt time.Time `json:"decided_at"`
}

// EventSink publishes a domain event. A nil sink disables publishing,
// which is the local-dev default.
type EventSink interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// PubSubSink publishes events onto a Pub/Sub topic.
type PubSubSink struct {
	publisher *pubsub.Publisher
}

// NewPubSubSink wraps the given publisher. Returns nil for a nil
// publisher so callers can pass it straight through.
func NewPubSubSink(publisher *pubsub.Publisher) *PubSubSink {
	if publisher == nil {
		return nil
	}
	return &PubSubSink{publisher: publisher}
}

// Publish marshals the payload and blocks until the server acks it.
func (s *PubSubSink) Publish(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	result := s.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{AttrEventType: eventType},
	})
	_, err = result.Get(ctx)
	return err
}
