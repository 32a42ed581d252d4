package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bbcraft/checkout-hook/internal/messaging"
	"github.com/bbcraft/checkout-hook/internal/order"
)

// OrderCompletedMessage is published on the order bus.
type OrderCompletedMessage struct {
	EventID     string        `json:"event_id"`
	Order       *order.Record `json:"order"`
	CompletedAt time.Time     `json:"completed_at"`
}

// BusSink announces completed orders to other services over a broker.
type BusSink struct {
	publisher messaging.Publisher
	subject   string
	now       func() time.Time
}

// NewBusSink creates the order bus sink. An empty subject selects
// messaging.SubjectOrdersCompleted.
func NewBusSink(publisher messaging.Publisher, subject string) *BusSink {
	if subject == "" {
		subject = messaging.SubjectOrdersCompleted
	}
	return &BusSink{publisher: publisher, subject: subject, now: time.Now}
}

func (s *BusSink) Name() string {
	return SinkOrderBus
}

// Notify publishes the order with the event ID as the broker dedupe key.
func (s *BusSink) Notify(ctx context.Context, d Delivery) Result {
	if s.publisher == nil {
		return Skipped("order bus not connected")
	}

	data, err := json.Marshal(OrderCompletedMessage{
		EventID:     d.EventID,
		Order:       d.Order,
		CompletedAt: s.now().UTC(),
	})
	if err != nil {
		return Failed(fmt.Errorf("marshal order message: %w", err))
	}

	msg := &messaging.Message{
		Subject:   s.subject,
		Data:      data,
		Timestamp: s.now(),
	}
	if d.EventID != "" {
		msg.Metadata = map[string]string{
			messaging.HeaderEventID: d.EventID,
			messaging.HeaderMsgID:   d.EventID,
		}
	}

	if err := s.publisher.PublishMsg(ctx, msg); err != nil {
		return Failed(fmt.Errorf("publish to %s: %w", s.subject, err))
	}
	return Sent()
}
