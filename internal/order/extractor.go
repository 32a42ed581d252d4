package order

import (
	"context"
	"strings"

	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/metrics"
	"github.com/bbcraft/checkout-hook/internal/webhook"
)

// LineItem is the part of a purchased line item used to describe the order.
type LineItem struct {
	Description string
	ProductName string
}

// LineItemFetcher looks up the line items of a checkout session.
// Implementations must be read-only.
type LineItemFetcher interface {
	FetchLineItems(ctx context.Context, sessionID string) ([]LineItem, error)
}

// Placeholders fill in values the payload does not carry.
type Placeholders struct {
	Name    string
	Product string
	Item    string
}

// DefaultPlaceholders returns the built-in placeholder values.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Name:    "customer",
		Product: "Unknown product",
		Item:    "Item",
	}
}

// Extractor builds Records from checkout completion payloads.
type Extractor struct {
	fetcher      LineItemFetcher
	placeholders Placeholders
	logger       *logging.Logger
}

// NewExtractor creates an Extractor. A nil fetcher disables enrichment and
// every record gets the product placeholder. Empty placeholders fall back to
// DefaultPlaceholders.
func NewExtractor(fetcher LineItemFetcher, placeholders Placeholders, logger *logging.Logger) *Extractor {
	defaults := DefaultPlaceholders()
	if placeholders.Name == "" {
		placeholders.Name = defaults.Name
	}
	if placeholders.Product == "" {
		placeholders.Product = defaults.Product
	}
	if placeholders.Item == "" {
		placeholders.Item = defaults.Item
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{
		fetcher:      fetcher,
		placeholders: placeholders,
		logger:       logger,
	}
}

// Extract maps checkout into a Record. A failed line item lookup is logged
// and replaced by the product placeholder; it never fails extraction.
func (e *Extractor) Extract(ctx context.Context, checkout *webhook.CheckoutCompleted) (*Record, error) {
	if checkout == nil {
		return nil, ErrNoCheckout
	}

	record := &Record{
		SessionID:   checkout.SessionID,
		Email:       strings.TrimSpace(checkout.CustomerEmail),
		Name:        strings.TrimSpace(checkout.CustomerName),
		AmountMinor: checkout.AmountTotal,
		Currency:    checkout.Currency,
	}
	if record.Name == "" {
		record.Name = e.placeholders.Name
	}
	if err := validate(record); err != nil {
		return nil, err
	}

	record.Product = e.describe(ctx, checkout.SessionID)
	return record, nil
}

func (e *Extractor) describe(ctx context.Context, sessionID string) string {
	if e.fetcher == nil || sessionID == "" {
		return e.placeholders.Product
	}

	items, err := e.fetcher.FetchLineItems(ctx, sessionID)
	if err != nil {
		metrics.EnrichmentFailures.Inc()
		e.logger.WarnContext(ctx, "line item lookup failed, using placeholder product",
			logging.SessionID(sessionID),
			logging.Error(err))
		return e.placeholders.Product
	}
	if len(items) == 0 {
		return e.placeholders.Product
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		switch {
		case strings.TrimSpace(item.Description) != "":
			names = append(names, strings.TrimSpace(item.Description))
		case strings.TrimSpace(item.ProductName) != "":
			names = append(names, strings.TrimSpace(item.ProductName))
		default:
			names = append(names, e.placeholders.Item)
		}
	}
	return strings.Join(names, ", ")
}
