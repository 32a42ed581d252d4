package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/messaging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.URL)
	assert.Equal(t, "checkouthook", cfg.Name)
	assert.Equal(t, -1, cfg.MaxReconnects)
	assert.Equal(t, 2*time.Second, cfg.ReconnectWait)
}

func TestNewClient_Unreachable(t *testing.T) {
	client, err := NewClient(Config{
		URL:     "nats://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, logging.Discard())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestToNATS(t *testing.T) {
	msg := toNATS(&messaging.Message{
		Subject: messaging.SubjectOrdersCompleted,
		Data:    []byte(`{"session_id":"cs_1"}`),
		Metadata: map[string]string{
			messaging.HeaderEventID: "evt_1",
			messaging.HeaderMsgID:   "evt_1",
		},
	})

	assert.Equal(t, "checkout.orders.completed", msg.Subject)
	assert.JSONEq(t, `{"session_id":"cs_1"}`, string(msg.Data))
	assert.Equal(t, "evt_1", msg.Header.Get(messaging.HeaderEventID))
	assert.Equal(t, "evt_1", msg.Header.Get(messaging.HeaderMsgID))

	bare := toNATS(&messaging.Message{Subject: "s"})
	assert.Nil(t, bare.Header)
}

func TestClient_ImplementsPublisher(t *testing.T) {
	var _ messaging.Publisher = (*Client)(nil)
}
