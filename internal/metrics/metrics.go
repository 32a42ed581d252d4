package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook request metrics
	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouthook_webhook_requests_total",
			Help: "Total number of webhook requests by outcome",
		},
		[]string{"outcome"},
	)

	WebhookBodyBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkouthook_webhook_body_bytes_total",
			Help: "Total bytes of webhook bodies received",
		},
	)

	// Verified events by provider event type and whether they were routed
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouthook_events_total",
			Help: "Total number of verified events",
		},
		[]string{"type", "routed"},
	)

	DuplicateDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkouthook_duplicate_deliveries_total",
			Help: "Total number of verified events skipped as already processed",
		},
	)

	// Enrichment metrics
	EnrichmentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkouthook_enrichment_failures_total",
			Help: "Total number of failed line item lookups",
		},
	)

	// Sink metrics
	SinkResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouthook_sink_results_total",
			Help: "Total number of notification sink outcomes",
		},
		[]string{"sink", "status"},
	)

	SinkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkouthook_sink_duration_seconds",
			Help:    "Duration of notification sink calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)
)
