package webhook

import "errors"

var (
	// ErrReadBody wraps every failure to buffer the request body.
	ErrReadBody = errors.New("unable to read body")

	// ErrBodyTooLarge is returned, wrapped in ErrReadBody, when the body
	// exceeds the configured limit.
	ErrBodyTooLarge = errors.New("body exceeds maximum size")

	// ErrMissingSignature is returned when the signature header is absent.
	ErrMissingSignature = errors.New("missing signature header")

	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("webhook signing secret is not configured")

	// ErrInvalidSignature wraps provider verification failures: malformed
	// header, mismatch, or a timestamp outside the tolerance window.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformedEvent is returned when a signed payload cannot be decoded
	// into the event shape its type declares.
	ErrMalformedEvent = errors.New("malformed event payload")
)

// IsVerificationError reports whether err means the request must be rejected
// as unauthenticated.
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrMissingSecret) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrMalformedEvent)
}
