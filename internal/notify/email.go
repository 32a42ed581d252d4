package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bbcraft/checkout-hook/internal/mailclient"
	"github.com/bbcraft/checkout-hook/internal/order"
)

// Sink names.
const (
	SinkCustomerEmail = "customer_email"
	SinkMerchantEmail = "merchant_email"
	SinkAutomation    = "automation"
	SinkOrderBus      = "order_bus"
)

// CustomerEmailSink sends the order confirmation to the buyer.
type CustomerEmailSink struct {
	sender mailclient.Sender
	from   string
}

// NewCustomerEmailSink creates the buyer confirmation sink.
func NewCustomerEmailSink(sender mailclient.Sender, from string) *CustomerEmailSink {
	return &CustomerEmailSink{sender: sender, from: from}
}

func (s *CustomerEmailSink) Name() string {
	return SinkCustomerEmail
}

// Notify is skipped when the email provider is not configured or the buyer
// left no address.
func (s *CustomerEmailSink) Notify(ctx context.Context, d Delivery) Result {
	if s.sender == nil || !s.sender.Configured() {
		return Skipped("email api key not set")
	}
	if !d.Order.HasEmail() {
		return Skipped("customer email missing")
	}

	if err := s.sender.Send(ctx, CustomerConfirmation(s.from, d.Order)); err != nil {
		return Failed(err)
	}
	return Sent()
}

// MerchantEmailSink tells the shop owner about the new order.
type MerchantEmailSink struct {
	sender       mailclient.Sender
	from         string
	to           string
	missingEmail string
}

// NewMerchantEmailSink creates the merchant notification sink. missingEmail
// is shown in place of an absent customer address.
func NewMerchantEmailSink(sender mailclient.Sender, from, to, missingEmail string) *MerchantEmailSink {
	if missingEmail == "" {
		missingEmail = "not provided"
	}
	return &MerchantEmailSink{
		sender:       sender,
		from:         from,
		to:           strings.TrimSpace(to),
		missingEmail: missingEmail,
	}
}

func (s *MerchantEmailSink) Name() string {
	return SinkMerchantEmail
}

// Notify is skipped when the email provider or the merchant address is not
// configured.
func (s *MerchantEmailSink) Notify(ctx context.Context, d Delivery) Result {
	if s.sender == nil || !s.sender.Configured() {
		return Skipped("email api key not set")
	}
	if s.to == "" {
		return Skipped("merchant address not set")
	}

	if err := s.sender.Send(ctx, MerchantNotice(s.from, s.to, s.missingEmail, d.Order)); err != nil {
		return Failed(err)
	}
	return Sent()
}

// CustomerConfirmation renders the buyer's confirmation email.
func CustomerConfirmation(from string, r *order.Record) mailclient.Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", r.Name)
	b.WriteString("thank you very much for your order.\n")
	fmt.Fprintf(&b, "Your payment of %s has arrived and we can start preparing your parcel.\n\n", r.FormattedAmount())
	b.WriteString("Please reply to this email and let us know how you would like it delivered:\n")
	b.WriteString("  - parcel delivery to your address (send us the full address)\n")
	b.WriteString("  - pickup box (send us the box code or address)\n")
	b.WriteString("  - personal pickup (we will agree on a place and time)\n\n")
	b.WriteString("As soon as we have the details we will pack your order and let you know when it is on its way.\n")

	return mailclient.Email{
		From:    from,
		To:      r.Email,
		Subject: fmt.Sprintf("Thank you for your order, %s!", r.Name),
		Text:    b.String(),
	}
}

// MerchantNotice renders the merchant's new order email.
func MerchantNotice(from, to, missingEmail string, r *order.Record) mailclient.Email {
	customer := r.Email
	if customer == "" {
		customer = missingEmail
	}
	product := r.Product
	if product == "" {
		product = "-"
	}

	var b strings.Builder
	b.WriteString("A new order has been paid:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "Customer email: %s\n", customer)
	fmt.Fprintf(&b, "Amount: %s\n", r.FormattedAmount())
	fmt.Fprintf(&b, "Product(s): %s\n", product)
	if r.SessionID != "" {
		fmt.Fprintf(&b, "Checkout session: %s\n", r.SessionID)
	}
	b.WriteString("\nFull details are available in the Stripe dashboard.\n")

	return mailclient.Email{
		From:    from,
		To:      to,
		Subject: "New order",
		Text:    b.String(),
	}
}
