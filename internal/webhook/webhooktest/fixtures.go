// Package webhooktest builds signed provider payloads for tests and local tooling.
package webhooktest

import (
	"encoding/json"
	"time"

	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

// Secret is a signing secret used by fixtures.
const Secret = "whsec_test_secret"

// Checkout describes a checkout.session.completed fixture.
type Checkout struct {
	EventID      string
	SessionID    string
	AmountTotal  int64
	Currency     string
	Email        string
	Name         string
	OmitCustomer bool
}

// DefaultCheckout is the canonical completed order used across tests.
func DefaultCheckout() Checkout {
	return Checkout{
		EventID:     "evt_test_checkout",
		SessionID:   "cs_test_a1b2c3",
		AmountTotal: 1990,
		Currency:    "czk",
		Email:       "a@b.cz",
		Name:        "Alena",
	}
}

// CheckoutCompletedPayload renders c as a raw event envelope.
func CheckoutCompletedPayload(c Checkout) []byte {
	object := map[string]any{
		"id":           c.SessionID,
		"object":       "checkout.session",
		"amount_total": c.AmountTotal,
		"currency":     c.Currency,
		"mode":         "payment",
	}
	if !c.OmitCustomer {
		details := map[string]any{}
		if c.Email != "" {
			details["email"] = c.Email
		}
		if c.Name != "" {
			details["name"] = c.Name
		}
		object["customer_details"] = details
	}
	return EventPayload(c.EventID, "checkout.session.completed", object)
}

// EventPayload renders an arbitrary event envelope.
func EventPayload(id, eventType string, object map[string]any) []byte {
	envelope := map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"created":     time.Now().Unix(),
		"api_version": "2025-03-31.basil",
		"livemode":    false,
		"data": map[string]any{
			"object": object,
		},
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		panic(err)
	}
	return payload
}

// SignedHeader returns a valid signature header for payload at the given time.
func SignedHeader(payload []byte, secret string, at time.Time) string {
	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	})
	return signed.Header
}
