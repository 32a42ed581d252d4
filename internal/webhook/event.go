// Package webhook turns a raw, signed provider request into a trusted Event.
package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
)

// Kind is the set of event kinds the receiver understands.
type Kind int

const (
	// KindOther is any verified event the receiver acknowledges but ignores.
	KindOther Kind = iota
	// KindCheckoutCompleted is a completed checkout session.
	KindCheckoutCompleted
)

func (k Kind) String() string {
	switch k {
	case KindCheckoutCompleted:
		return "checkout_completed"
	default:
		return "other"
	}
}

// TypeCheckoutSessionCompleted is the provider event type routed to the
// order flow.
const TypeCheckoutSessionCompleted = string(stripe.EventTypeCheckoutSessionCompleted)

// Event is a verified provider event. Only a Verifier constructs it.
// Checkout is non-nil exactly when Kind is KindCheckoutCompleted.
type Event struct {
	ID       string
	Type     string
	Kind     Kind
	Created  time.Time
	Checkout *CheckoutCompleted
}

// CheckoutCompleted is the vendor-neutral payload of a completed checkout.
// Empty strings mean the provider did not send the field.
type CheckoutCompleted struct {
	SessionID     string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	CustomerName  string
}

// Decode maps an already-authenticated Stripe event to an Event.
func Decode(se stripe.Event) (*Event, error) {
	ev := &Event{
		ID:   se.ID,
		Type: string(se.Type),
		Kind: KindOther,
	}
	if se.Created > 0 {
		ev.Created = time.Unix(se.Created, 0).UTC()
	}

	if se.Type != stripe.EventTypeCheckoutSessionCompleted {
		return ev, nil
	}

	if se.Data == nil || len(se.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no data object", ErrMalformedEvent, se.Type)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(se.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	checkout := &CheckoutCompleted{
		SessionID:   session.ID,
		AmountTotal: session.AmountTotal,
		Currency:    string(session.Currency),
	}
	if session.CustomerDetails != nil {
		checkout.CustomerEmail = session.CustomerDetails.Email
		checkout.CustomerName = session.CustomerDetails.Name
	}

	ev.Kind = KindCheckoutCompleted
	ev.Checkout = checkout
	return ev, nil
}

// DecodePayload decodes a raw event envelope without checking its signature.
// It exists for offline inspection; request handling must go through a Verifier.
func DecodePayload(payload []byte) (*Event, error) {
	var se stripe.Event
	if err := json.Unmarshal(payload, &se); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return Decode(se)
}
