// Package stripeclient wraps the Stripe API calls the receiver makes after a
// webhook has been verified.
package stripeclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/bbcraft/checkout-hook/internal/order"
)

// ErrNotConfigured is returned by New when no secret key is set.
var ErrNotConfigured = errors.New("stripe secret key is not configured")

// Config holds the settings for the API client.
type Config struct {
	SecretKey string
	// APIURL overrides the API base URL. Empty uses api.stripe.com.
	APIURL  string
	Timeout time.Duration
}

// Client is a read-only Stripe API client. Each Client owns its backend and
// key; the SDK's package-level globals are never touched.
type Client struct {
	sessions session.Client
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	return &Client{
		sessions: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
	}, nil
}

// FetchLineItems retrieves the session with its line items and their
// products expanded.
func (c *Client) FetchLineItems(ctx context.Context, sessionID string) ([]order.LineItem, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	params.AddExpand("line_items.data.price.product")

	s, err := c.sessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}
	if s.LineItems == nil {
		return nil, nil
	}

	items := make([]order.LineItem, 0, len(s.LineItems.Data))
	for _, li := range s.LineItems.Data {
		if li == nil {
			continue
		}
		item := order.LineItem{Description: li.Description}
		if li.Price != nil && li.Price.Product != nil {
			item.ProductName = li.Price.Product.Name
		}
		items = append(items, item)
	}
	return items, nil
}
