package webhook

import (
	"fmt"
	"strings"
	"time"

	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

// DefaultTolerance is the accepted age of a signature timestamp.
const DefaultTolerance = 5 * time.Minute

// Verifier authenticates a raw payload against its signature header.
type Verifier interface {
	Verify(payload []byte, signatureHeader string) (*Event, error)
}

// StripeVerifier checks Stripe's HMAC-SHA256 signature scheme
// ("t=<unix>,v1=<hex>") and rejects timestamps outside the tolerance window.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

// NewStripeVerifier creates a verifier for the given signing secret.
// A zero tolerance selects DefaultTolerance.
func NewStripeVerifier(secret string, tolerance time.Duration) *StripeVerifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &StripeVerifier{
		secret:    strings.TrimSpace(secret),
		tolerance: tolerance,
	}
}

// Verify returns the decoded event only when the signature is valid and fresh.
func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (*Event, error) {
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, ErrMissingSignature
	}
	if v.secret == "" {
		return nil, ErrMissingSecret
	}

	se, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, stripewebhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return Decode(se)
}
