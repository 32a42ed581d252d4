// Package handlers contains the HTTP handlers of the webhook receiver.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bbcraft/checkout-hook/internal/httputil"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	required map[string]Check
	optional map[string]Check
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler. Both sets of checks run on
// readiness only. A failing required check answers 503; a failing optional
// check is reported under "checks" and leaves the service ready.
func NewHealthHandler(required, optional map[string]Check) *HealthHandler {
	return &HealthHandler{required: required, optional: optional, timeout: 2 * time.Second}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.required)+len(h.optional))
	ready := runChecks(ctx, h.required, results)
	degraded := !runChecks(ctx, h.optional, results)

	status, state := http.StatusOK, "ready"
	switch {
	case !ready:
		status, state = http.StatusServiceUnavailable, "not_ready"
	case degraded:
		state = "degraded"
	}
	httputil.WriteJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": results,
	})
}

// runChecks records every result and reports whether all checks passed.
func runChecks(ctx context.Context, checks map[string]Check, results map[string]string) bool {
	ok := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			ok = false
			continue
		}
		results[name] = "ok"
	}
	return ok
}
