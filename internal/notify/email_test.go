package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbcraft/checkout-hook/internal/mailclient"
)

type fakeSender struct {
	configured bool
	err        error
	sent       []mailclient.Email
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Send(_ context.Context, email mailclient.Email) error {
	f.sent = append(f.sent, email)
	return f.err
}

const from = "Orders <noreply@example.com>"

func TestCustomerEmailSink(t *testing.T) {
	t.Run("sends confirmation with formatted amount", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		res := NewCustomerEmailSink(sender, from).Notify(context.Background(), Delivery{Order: testOrder()})

		assert.Equal(t, StatusSent, res.Status)
		require.Len(t, sender.sent, 1)
		email := sender.sent[0]
		assert.Equal(t, from, email.From)
		assert.Equal(t, "a@b.cz", email.To)
		assert.Equal(t, "Thank you for your order, Alena!", email.Subject)
		assert.Contains(t, email.Text, "Hi Alena,")
		assert.Contains(t, email.Text, "19.90 CZK")
	})

	t.Run("skipped without api key", func(t *testing.T) {
		sender := &fakeSender{}
		res := NewCustomerEmailSink(sender, from).Notify(context.Background(), Delivery{Order: testOrder()})
		assert.Equal(t, StatusSkippedNotConfigured, res.Status)
		assert.Empty(t, sender.sent)
	})

	t.Run("skipped without customer email", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		o := testOrder()
		o.Email = ""
		res := NewCustomerEmailSink(sender, from).Notify(context.Background(), Delivery{Order: o})
		assert.Equal(t, StatusSkippedNotConfigured, res.Status)
		assert.Equal(t, "customer email missing", res.Reason)
		assert.Empty(t, sender.sent)
	})

	t.Run("provider failure", func(t *testing.T) {
		sender := &fakeSender{configured: true, err: &mailclient.StatusError{StatusCode: 403, Body: "forbidden"}}
		res := NewCustomerEmailSink(sender, from).Notify(context.Background(), Delivery{Order: testOrder()})
		assert.Equal(t, StatusFailed, res.Status)
		assert.Contains(t, res.Reason, "403")
	})
}

func TestMerchantEmailSink(t *testing.T) {
	t.Run("sends notice", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		res := NewMerchantEmailSink(sender, from, "owner@shop.cz", "").Notify(context.Background(), Delivery{Order: testOrder()})

		assert.Equal(t, StatusSent, res.Status)
		require.Len(t, sender.sent, 1)
		email := sender.sent[0]
		assert.Equal(t, "owner@shop.cz", email.To)
		assert.Equal(t, "New order", email.Subject)
		assert.Contains(t, email.Text, "Customer email: a@b.cz")
		assert.Contains(t, email.Text, "Amount: 19.90 CZK")
		assert.Contains(t, email.Text, "Product(s): Snail mug")
	})

	t.Run("missing customer email uses placeholder", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		o := testOrder()
		o.Email = ""
		res := NewMerchantEmailSink(sender, from, "owner@shop.cz", "nezadaný").Notify(context.Background(), Delivery{Order: o})

		assert.Equal(t, StatusSent, res.Status)
		assert.Contains(t, sender.sent[0].Text, "Customer email: nezadaný")
	})

	t.Run("skipped without merchant address", func(t *testing.T) {
		sender := &fakeSender{configured: true}
		res := NewMerchantEmailSink(sender, from, "  ", "").Notify(context.Background(), Delivery{Order: testOrder()})
		assert.Equal(t, StatusSkippedNotConfigured, res.Status)
		assert.Empty(t, sender.sent)
	})

	t.Run("skipped without api key", func(t *testing.T) {
		res := NewMerchantEmailSink(&fakeSender{}, from, "owner@shop.cz", "").Notify(context.Background(), Delivery{Order: testOrder()})
		assert.Equal(t, StatusSkippedNotConfigured, res.Status)
	})

	t.Run("transport failure", func(t *testing.T) {
		sender := &fakeSender{configured: true, err: errors.New("dial tcp: connection refused")}
		res := NewMerchantEmailSink(sender, from, "owner@shop.cz", "").Notify(context.Background(), Delivery{Order: testOrder()})
		assert.Equal(t, StatusFailed, res.Status)
		assert.Contains(t, res.Reason, "connection refused")
	})
}
