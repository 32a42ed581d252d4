// Package service routes verified provider events to the order flow.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bbcraft/checkout-hook/internal/dedupe"
	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/metrics"
	"github.com/bbcraft/checkout-hook/internal/notify"
	"github.com/bbcraft/checkout-hook/internal/order"
	"github.com/bbcraft/checkout-hook/internal/webhook"
)

// Outcome describes what the router did with a verified event. Every outcome
// is acknowledged to the provider.
type Outcome string

const (
	OutcomeIgnored      Outcome = "ignored"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeInvalidOrder Outcome = "invalid_order"
	OutcomeDispatched   Outcome = "dispatched"
	OutcomeFailed       Outcome = "failed"
)

// Result is the outcome of routing one event.
type Result struct {
	Outcome Outcome
	Order   *order.Record
	Sinks   []notify.Result
	Err     error
}

// Extractor builds an order record from a checkout completion.
type Extractor interface {
	Extract(ctx context.Context, checkout *webhook.CheckoutCompleted) (*order.Record, error)
}

// Dispatcher delivers an order to the notification sinks.
type Dispatcher interface {
	Dispatch(ctx context.Context, d notify.Delivery) []notify.Result
}

// Router acts on checkout completions and acknowledges everything else.
type Router struct {
	extractor  Extractor
	dispatcher Dispatcher
	store      dedupe.Store
	logger     *logging.Logger
}

// NewRouter creates a Router. A nil store disables delivery dedupe.
func NewRouter(extractor Extractor, dispatcher Dispatcher, store dedupe.Store, logger *logging.Logger) *Router {
	if store == nil {
		store = dedupe.NoOpStore{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		extractor:  extractor,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// Route handles one verified event. It never panics and never returns an
// error that should change the HTTP answer; failures are reported in Result.
func (r *Router) Route(ctx context.Context, ev *webhook.Event) (res Result) {
	if ev == nil {
		return Result{Outcome: OutcomeIgnored}
	}

	log := r.logger.With(logging.EventID(ev.ID), logging.EventType(ev.Type))

	defer func() {
		if p := recover(); p != nil {
			res = Result{Outcome: OutcomeFailed, Err: fmt.Errorf("panic while routing event: %v", p)}
			log.ErrorContext(ctx, "order flow panicked", logging.Error(res.Err))
		}
	}()

	if ev.Kind != webhook.KindCheckoutCompleted || ev.Checkout == nil {
		metrics.EventsTotal.WithLabelValues(ev.Type, "false").Inc()
		log.InfoContext(ctx, "event acknowledged without action")
		return Result{Outcome: OutcomeIgnored}
	}
	metrics.EventsTotal.WithLabelValues(ev.Type, "true").Inc()

	if !r.claim(ctx, log, ev.ID) {
		metrics.DuplicateDeliveries.Inc()
		log.InfoContext(ctx, "event already processed, skipping")
		return Result{Outcome: OutcomeDuplicate}
	}

	record, err := r.extractor.Extract(ctx, ev.Checkout)
	if err != nil {
		log.ErrorContext(ctx, "checkout payload rejected",
			logging.SessionID(ev.Checkout.SessionID),
			logging.Error(err))
		return Result{Outcome: OutcomeInvalidOrder, Err: err}
	}

	log.InfoContext(ctx, "order completed",
		logging.SessionID(record.SessionID),
		slog.String("name", record.Name),
		slog.Bool("has_email", record.HasEmail()),
		slog.Int64("amount_minor", record.AmountMinor),
		slog.String("currency", record.Currency),
		slog.String("product", record.Product))

	results := r.dispatcher.Dispatch(ctx, notify.Delivery{EventID: ev.ID, Order: record})

	summary := notify.Summarize(results)
	log.InfoContext(ctx, "order notifications finished",
		slog.Int("sent", summary[notify.StatusSent]),
		slog.Int("skipped", summary[notify.StatusSkippedNotConfigured]),
		slog.Int("failed", summary[notify.StatusFailed]))

	return Result{Outcome: OutcomeDispatched, Order: record, Sinks: results}
}

// claim fails open: a store error lets the event through.
func (r *Router) claim(ctx context.Context, log *logging.Logger, eventID string) bool {
	ok, err := r.store.Claim(ctx, eventID)
	if err != nil {
		log.WarnContext(ctx, "dedupe store unavailable, processing anyway", logging.Error(err))
		return true
	}
	return ok
}
