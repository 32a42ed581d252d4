// Package server assembles the HTTP router of the webhook receiver.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bbcraft/checkout-hook/internal/handlers"
	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/middleware"
)

// DefaultWebhookPath is where the provider delivers events.
const DefaultWebhookPath = "/api/stripe-webhook"

// Routes holds everything the router serves.
type Routes struct {
	WebhookPath string
	Webhook     *handlers.WebhookHandler
	Health      *handlers.HealthHandler
	Logger      *logging.Logger
}

// NewRouter constructs a chi router with the webhook and operational routes
// registered.
func NewRouter(rt Routes) http.Handler {
	if rt.WebhookPath == "" {
		rt.WebhookPath = DefaultWebhookPath
	}
	if rt.Health == nil {
		rt.Health = handlers.NewHealthHandler(nil, nil)
	}
	if rt.Logger == nil {
		rt.Logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(AccessLog(rt.Logger))
	r.Use(chimw.Recoverer)

	// Every method reaches the handler so it can answer 405 itself.
	r.HandleFunc(rt.WebhookPath, rt.Webhook.HandleWebhook)

	r.Get("/healthz", rt.Health.Health)
	r.Get("/readyz", rt.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// AccessLog logs one line per request with the request ID attached.
func AccessLog(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.InfoContext(r.Context(), "http request",
				logging.Method(r.Method),
				logging.Path(r.URL.Path),
				logging.Status(status),
				logging.IP(r.RemoteAddr),
				logging.Duration(time.Since(start)))
		})
	}
}
