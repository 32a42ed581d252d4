package stripeclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/bbcraft/checkout-hook/internal/order"
)

const sessionJSON = `{
  "id": "cs_test_a1b2c3",
  "object": "checkout.session",
  "amount_total": 1990,
  "currency": "czk",
  "line_items": {
    "object": "list",
    "has_more": false,
    "url": "/v1/checkout/sessions/cs_test_a1b2c3/line_items",
    "data": [
      {
        "id": "li_1",
        "object": "item",
        "description": "Snail mug",
        "price": {"id": "price_1", "object": "price", "product": {"id": "prod_1", "object": "product", "name": "Ceramic snail mug"}}
      },
      {
        "id": "li_2",
        "object": "item",
        "description": "",
        "price": {"id": "price_2", "object": "price", "product": {"id": "prod_2", "object": "product", "name": "Gift wrap"}}
      }
    ]
  }
}`

func TestNew_RequiresSecretKey(t *testing.T) {
	c, err := New(Config{})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchLineItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_a1b2c3", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		query := r.URL.Query()
		assert.Equal(t, "line_items", query.Get("expand[0]"))
		assert.Equal(t, "line_items.data.price.product", query.Get("expand[1]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sessionJSON))
	}))
	defer server.Close()

	c, err := New(Config{SecretKey: "sk_test_123", APIURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	items, err := c.FetchLineItems(context.Background(), "cs_test_a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, []order.LineItem{
		{Description: "Snail mug", ProductName: "Ceramic snail mug"},
		{Description: "", ProductName: "Gift wrap"},
	}, items)
}

func TestFetchLineItems_NoLineItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_empty","object":"checkout.session"}`))
	}))
	defer server.Close()

	c, err := New(Config{SecretKey: "sk_test_123", APIURL: server.URL})
	require.NoError(t, err)

	items, err := c.FetchLineItems(context.Background(), "cs_empty")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchLineItems_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session: cs_missing"}}`))
	}))
	defer server.Close()

	c, err := New(Config{SecretKey: "sk_test_123", APIURL: server.URL})
	require.NoError(t, err)

	items, err := c.FetchLineItems(context.Background(), "cs_missing")
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "cs_missing")

	var stripeErr *stripe.Error
	require.True(t, errors.As(err, &stripeErr))
	assert.Equal(t, http.StatusNotFound, stripeErr.HTTPStatusCode)
}

func TestFetchLineItems_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := New(Config{SecretKey: "sk_test_123", APIURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.FetchLineItems(context.Background(), "cs_test_a1b2c3")
	assert.Error(t, err)
}

func TestClientSatisfiesLineItemFetcher(t *testing.T) {
	var _ order.LineItemFetcher = (*Client)(nil)
}
