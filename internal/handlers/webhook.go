package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bbcraft/checkout-hook/internal/httputil"
	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/metrics"
	"github.com/bbcraft/checkout-hook/internal/service"
	"github.com/bbcraft/checkout-hook/internal/webhook"
)

// Response bodies seen by the provider.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgUnreadableBody   = "Unable to read body"
	msgAccepted         = "OK"
	webhookErrorPrefix  = "Webhook Error: "
)

// DefaultSignatureHeader is the header Stripe signs deliveries with.
const DefaultSignatureHeader = "Stripe-Signature"

// EventRouter acts on a verified event.
type EventRouter interface {
	Route(ctx context.Context, ev *webhook.Event) service.Result
}

// WebhookOptions tune the inbound endpoint.
type WebhookOptions struct {
	SignatureHeader string
	MaxBodyBytes    int64
}

// WebhookHandler receives provider deliveries.
type WebhookHandler struct {
	verifier webhook.Verifier
	router   EventRouter
	opts     WebhookOptions
	logger   *logging.Logger
}

func NewWebhookHandler(verifier webhook.Verifier, router EventRouter, opts WebhookOptions, logger *logging.Logger) *WebhookHandler {
	if opts.SignatureHeader == "" {
		opts.SignatureHeader = DefaultSignatureHeader
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifier: verifier,
		router:   router,
		opts:     opts,
		logger:   logger,
	}
}

// HandleWebhook answers 405 for anything but POST, 400 when the body cannot be
// read or the signature does not verify, and 200 otherwise. Failures after
// verification are logged and never change the status, so the provider does
// not redeliver an event whose side effects may already have happened.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		metrics.WebhookRequestsTotal.WithLabelValues("method_not_allowed").Inc()
		w.Header().Set("Allow", http.MethodPost)
		httputil.WriteError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	body, err := webhook.ReadBody(r.Body, h.opts.MaxBodyBytes)
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("read_error").Inc()
		h.logger.WarnContext(ctx, "failed to read webhook body", logging.Error(err))
		httputil.WriteText(w, http.StatusBadRequest, msgUnreadableBody)
		return
	}
	metrics.WebhookBodyBytesTotal.Add(float64(len(body)))

	event, err := h.verifier.Verify(body, r.Header.Get(h.opts.SignatureHeader))
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid_signature").Inc()
		if errors.Is(err, webhook.ErrMissingSecret) {
			h.logger.ErrorContext(ctx, "webhook signing secret is not configured, rejecting delivery")
		} else {
			h.logger.WarnContext(ctx, "webhook signature rejected",
				logging.IP(httputil.GetClientIP(r)),
				logging.Error(err))
		}
		httputil.WriteText(w, http.StatusBadRequest, webhookErrorPrefix+err.Error())
		return
	}

	h.logger.InfoContext(ctx, "webhook verified",
		logging.EventID(event.ID),
		logging.EventType(event.Type))

	res := h.router.Route(ctx, event)
	metrics.WebhookRequestsTotal.WithLabelValues(string(res.Outcome)).Inc()

	httputil.WriteText(w, http.StatusOK, msgAccepted)
}
