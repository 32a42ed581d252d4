package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging across packages.
const (
	FieldService    = "service"
	FieldRequestID  = "request_id"
	FieldIP         = "ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldEventID    = "event_id"
	FieldEventType  = "event_type"
	FieldSessionID  = "session_id"
	FieldSink       = "sink"
	FieldSinkStatus = "sink_status"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// IP returns a slog attribute for the IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// EventID returns a slog attribute for a provider event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// EventType returns a slog attribute for a provider event type.
func EventType(t string) slog.Attr {
	return slog.String(FieldEventType, t)
}

// SessionID returns a slog attribute for a checkout session ID.
func SessionID(id string) slog.Attr {
	return slog.String(FieldSessionID, id)
}

// Sink returns a slog attribute for a notification sink name.
func Sink(name string) slog.Attr {
	return slog.String(FieldSink, name)
}

// SinkStatus returns a slog attribute for a sink outcome.
func SinkStatus(status string) slog.Attr {
	return slog.String(FieldSinkStatus, status)
}
