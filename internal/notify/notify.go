// Package notify delivers a completed order to independent notification sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bbcraft/checkout-hook/internal/order"
)

// Status is the outcome of one sink invocation.
type Status string

const (
	StatusSent                 Status = "sent"
	StatusSkippedNotConfigured Status = "skipped_not_configured"
	StatusFailed               Status = "failed"
)

// Result is the typed outcome of one sink. Reason is set for skipped and
// failed results.
type Result struct {
	Sink     string
	Status   Status
	Reason   string
	Duration time.Duration
}

// Sent reports a delivered notification.
func Sent() Result {
	return Result{Status: StatusSent}
}

// Skipped reports a sink that lacks configuration or a recipient.
func Skipped(reason string) Result {
	return Result{Status: StatusSkippedNotConfigured, Reason: reason}
}

// Failed reports a sink whose side effect did not succeed.
func Failed(err error) Result {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Result{Status: StatusFailed, Reason: reason}
}

// Delivery is what every sink receives for one verified completion event.
type Delivery struct {
	EventID string
	Order   *order.Record
}

// Sink is one independent side effect of a completed order.
// Notify never returns an error; failures are reported in the Result.
type Sink interface {
	Name() string
	Notify(ctx context.Context, d Delivery) Result
}

// HTTPStatusError is returned when an HTTP collaborator answers with a
// non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// errNoOrder guards sinks against an empty delivery.
var errNoOrder = errors.New("delivery has no order")
