package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/bbcraft/checkout-hook/internal/middleware"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name   string
		format string
		isJSON bool
	}{
		{name: "json format", format: "json", isJSON: true},
		{name: "text format", format: "text", isJSON: false},
		{name: "default format is json", format: "", isJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, slog.LevelInfo, tt.format)
			logger.Info("hello")

			var entry map[string]any
			err := json.Unmarshal(buf.Bytes(), &entry)
			if tt.isJSON && err != nil {
				t.Fatalf("expected JSON output, got %q", buf.String())
			}
			if !tt.isJSON && err == nil {
				t.Fatalf("expected text output, got JSON %q", buf.String())
			}
		})
	}
}

func TestWithContext(t *testing.T) {
	tests := []struct {
		name        string
		ctx         context.Context
		expectReqID string
	}{
		{
			name:        "context with request ID",
			ctx:         context.WithValue(context.Background(), middleware.RequestIDKey, "req-123"),
			expectReqID: "req-123",
		},
		{
			name:        "context without request ID",
			ctx:         context.Background(),
			expectReqID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, slog.LevelInfo, "json")
			logger.InfoContext(tt.ctx, "processing")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse log output: %v", err)
			}
			got, _ := entry[FieldRequestID].(string)
			if got != tt.expectReqID {
				t.Errorf("request_id = %q, want %q", got, tt.expectReqID)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	if attr := Error(errors.New("boom")); attr.Value.String() != "boom" {
		t.Errorf("Error attr = %q", attr.Value.String())
	}
	if attr := Error(nil); attr.Value.String() != "" {
		t.Errorf("Error(nil) attr = %q", attr.Value.String())
	}
	if attr := Duration(1500 * time.Millisecond); attr.Value.Int64() != 1500 {
		t.Errorf("Duration attr = %d", attr.Value.Int64())
	}
	if attr := Sink("customer_email"); attr.Key != FieldSink {
		t.Errorf("Sink key = %q", attr.Key)
	}
}
