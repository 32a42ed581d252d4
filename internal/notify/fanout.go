package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/metrics"
)

// Fanout invokes its sinks one after another, in registration order.
// Every sink is evaluated exactly once per Dispatch and none can stop the rest.
type Fanout struct {
	sinks  []Sink
	logger *logging.Logger
}

// NewFanout creates a Fanout over sinks. Nil sinks are dropped.
func NewFanout(logger *logging.Logger, sinks ...Sink) *Fanout {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept, logger: logger}
}

// Sinks returns the sink names in dispatch order.
func (f *Fanout) Sinks() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.Name()
	}
	return names
}

// Dispatch delivers d to every sink and returns one Result per sink.
func (f *Fanout) Dispatch(ctx context.Context, d Delivery) []Result {
	results := make([]Result, 0, len(f.sinks))
	for _, sink := range f.sinks {
		res := f.invoke(ctx, sink, d)
		f.record(ctx, d, res)
		results = append(results, res)
	}
	return results
}

func (f *Fanout) invoke(ctx context.Context, sink Sink, d Delivery) (res Result) {
	start := time.Now()
	name := sink.Name()

	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Errorf("panic: %v", r))
		}
		res.Sink = name
		res.Duration = time.Since(start)
	}()

	if d.Order == nil {
		return Failed(errNoOrder)
	}
	return sink.Notify(ctx, d)
}

func (f *Fanout) record(ctx context.Context, d Delivery, res Result) {
	metrics.SinkResultsTotal.WithLabelValues(res.Sink, string(res.Status)).Inc()
	metrics.SinkDuration.WithLabelValues(res.Sink).Observe(res.Duration.Seconds())

	attrs := []any{
		logging.Sink(res.Sink),
		logging.SinkStatus(string(res.Status)),
		logging.EventID(d.EventID),
		logging.Duration(res.Duration),
	}
	if res.Reason != "" {
		attrs = append(attrs, slog.String("reason", res.Reason))
	}

	switch res.Status {
	case StatusSent:
		f.logger.InfoContext(ctx, "notification sent", attrs...)
	case StatusSkippedNotConfigured:
		f.logger.WarnContext(ctx, "notification skipped", attrs...)
	default:
		f.logger.ErrorContext(ctx, "notification failed", attrs...)
	}
}

// Summarize counts results by status.
func Summarize(results []Result) map[Status]int {
	summary := make(map[Status]int, 3)
	for _, r := range results {
		summary[r.Status]++
	}
	return summary
}
