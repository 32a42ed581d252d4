// Package messaging defines the broker abstraction used to announce completed
// orders to other services.
package messaging

import (
	"context"
	"time"
)

// Subjects and headers used by the receiver.
const (
	// SubjectOrdersCompleted is the default subject for completed orders.
	SubjectOrdersCompleted = "checkout.orders.completed"

	// HeaderEventID carries the provider event ID.
	HeaderEventID = "Checkout-Event-Id"

	// HeaderMsgID is the broker deduplication header.
	HeaderMsgID = "Nats-Msg-Id"
)

// Message represents a message sent to a message broker.
type Message struct {
	// Subject is the topic/channel the message is published to.
	Subject string

	// Data is the raw message payload.
	Data []byte

	// Metadata contains optional key-value pairs for message headers.
	Metadata map[string]string

	// Timestamp is when the message was published.
	Timestamp time.Time
}

// Publisher publishes messages with headers to subjects.
type Publisher interface {
	PublishMsg(ctx context.Context, msg *Message) error
}
