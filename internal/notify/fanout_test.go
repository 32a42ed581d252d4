package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/order"
)

type recordingSink struct {
	name   string
	result Result
	panic  any
	calls  *[]string
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Notify(_ context.Context, _ Delivery) Result {
	*s.calls = append(*s.calls, s.name)
	if s.panic != nil {
		panic(s.panic)
	}
	return s.result
}

func testOrder() *order.Record {
	return &order.Record{
		SessionID:   "cs_test_a1b2c3",
		Email:       "a@b.cz",
		Name:        "Alena",
		AmountMinor: 1990,
		Currency:    "czk",
		Product:     "Snail mug",
	}
}

func TestFanout_RunsEverySinkInOrder(t *testing.T) {
	var calls []string
	f := NewFanout(logging.Discard(),
		&recordingSink{name: "a", result: Sent(), calls: &calls},
		&recordingSink{name: "b", result: Skipped("nope"), calls: &calls},
		&recordingSink{name: "c", result: Sent(), calls: &calls},
	)

	results := f.Dispatch(context.Background(), Delivery{EventID: "evt_1", Order: testOrder()})

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, []string{"a", "b", "c"}, f.Sinks())
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Sink)
	assert.Equal(t, StatusSent, results[0].Status)
	assert.Equal(t, StatusSkippedNotConfigured, results[1].Status)
	assert.Equal(t, "nope", results[1].Reason)
	assert.Equal(t, StatusSent, results[2].Status)
}

func TestFanout_FailureDoesNotStopLaterSinks(t *testing.T) {
	var calls []string
	f := NewFanout(logging.Discard(),
		&recordingSink{name: "customer", result: Sent(), calls: &calls},
		&recordingSink{name: "merchant", result: Failed(errors.New("connection refused")), calls: &calls},
		&recordingSink{name: "push", result: Sent(), calls: &calls},
	)

	results := f.Dispatch(context.Background(), Delivery{Order: testOrder()})

	assert.Equal(t, []string{"customer", "merchant", "push"}, calls)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, "connection refused", results[1].Reason)
	assert.Equal(t, StatusSent, results[2].Status)
	assert.Equal(t, map[Status]int{StatusSent: 2, StatusFailed: 1}, Summarize(results))
}

func TestFanout_RecoversPanickingSink(t *testing.T) {
	var calls []string
	f := NewFanout(logging.Discard(),
		&recordingSink{name: "boom", panic: "template exploded", calls: &calls},
		&recordingSink{name: "after", result: Sent(), calls: &calls},
	)

	var results []Result
	require.NotPanics(t, func() {
		results = f.Dispatch(context.Background(), Delivery{Order: testOrder()})
	})

	assert.Equal(t, []string{"boom", "after"}, calls)
	assert.Equal(t, "boom", results[0].Sink)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Reason, "template exploded")
	assert.Equal(t, StatusSent, results[1].Status)
}

func TestFanout_NilOrder(t *testing.T) {
	var calls []string
	f := NewFanout(logging.Discard(), &recordingSink{name: "a", result: Sent(), calls: &calls})

	results := f.Dispatch(context.Background(), Delivery{})
	assert.Empty(t, calls)
	require.Len(t, results, 1)
	assert.Equal(t, StatusFailed, results[0].Status)
}

func TestFanout_DropsNilSinks(t *testing.T) {
	var calls []string
	f := NewFanout(nil, nil, &recordingSink{name: "a", result: Sent(), calls: &calls}, nil)
	assert.Equal(t, []string{"a"}, f.Sinks())
}

func TestFailed_NilError(t *testing.T) {
	r := Failed(nil)
	assert.Equal(t, StatusFailed, r.Status)
	assert.NotEmpty(t, r.Reason)
}
