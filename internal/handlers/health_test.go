package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Check
		optional   map[string]Check
		wantStatus int
		wantState  string
	}{
		{
			name:       "no dependencies",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantState:  "ready",
		},
		{
			name: "all checks pass",
			checks: map[string]Check{
				"redis": func(context.Context) error { return nil },
				"nats":  func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantState:  "ready",
		},
		{
			name: "one check fails",
			checks: map[string]Check{
				"redis": func(context.Context) error { return errors.New("connection refused") },
				"nats":  func(context.Context) error { return nil },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "not_ready",
		},
		{
			name: "optional check fails",
			optional: map[string]Check{
				"redis": func(context.Context) error { return errors.New("redis down") },
				"nats":  func(context.Context) error { return nil },
			},
			wantStatus: http.StatusOK,
			wantState:  "degraded",
		},
		{
			name: "required fails while optional passes",
			checks: map[string]Check{
				"stripe": func(context.Context) error { return errors.New("unreachable") },
			},
			optional: map[string]Check{
				"redis": func(context.Context) error { return nil },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checks, tt.optional).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.checks)+len(tt.optional))
		})
	}
}

func TestReady_OptionalFailureReported(t *testing.T) {
	h := NewHealthHandler(nil, map[string]Check{
		"redis": func(context.Context) error { return errors.New("redis down") },
	})
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"redis down"}}`, rec.Body.String())
}
