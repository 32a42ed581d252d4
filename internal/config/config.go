// Package config provides configuration loading for the checkout webhook receiver.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override
// (CHECKOUTHOOK_SERVER_PORT, CHECKOUTHOOK_EMAIL_API_KEY, ...).
const EnvPrefix = "CHECKOUTHOOK"

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Email      EmailConfig      `mapstructure:"email"`
	Automation AutomationConfig `mapstructure:"automation"`
	Order      OrderConfig      `mapstructure:"order"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Dedupe     DedupeConfig     `mapstructure:"dedupe"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// WebhookConfig controls the inbound endpoint.
type WebhookConfig struct {
	Path            string        `mapstructure:"path"`
	SignatureHeader string        `mapstructure:"signature_header"`
	Tolerance       time.Duration `mapstructure:"tolerance"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// StripeConfig holds the payment provider secrets.
// An empty WebhookSecret makes every signature check fail; an empty
// SecretKey disables line item enrichment.
type StripeConfig struct {
	WebhookSecret string        `mapstructure:"webhook_secret"`
	SecretKey     string        `mapstructure:"secret_key"`
	APIURL        string        `mapstructure:"api_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// EmailConfig holds transactional email provider settings
type EmailConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	APIURL          string        `mapstructure:"api_url"`
	From            string        `mapstructure:"from"`
	MerchantAddress string        `mapstructure:"merchant_address"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// AutomationConfig holds the spreadsheet/automation push endpoint.
type AutomationConfig struct {
	URL      string        `mapstructure:"url"`
	Timezone string        `mapstructure:"timezone"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// OrderConfig holds the placeholders used when the payload lacks data.
type OrderConfig struct {
	DefaultName     string `mapstructure:"default_name"`
	DefaultProduct  string `mapstructure:"default_product"`
	ItemPlaceholder string `mapstructure:"item_placeholder"`
	MissingEmail    string `mapstructure:"missing_email"`
}

// NATSConfig holds the optional order bus settings.
type NATSConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	Subject       string        `mapstructure:"subject"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

// DedupeConfig holds the optional Redis delivery dedupe settings.
type DedupeConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the unprefixed variable names used by
// existing deployments.
var legacyEnv = map[string]string{
	"stripe.secret_key":      "STRIPE_SECRET_KEY",
	"stripe.webhook_secret":  "STRIPE_WEBHOOK_SECRET",
	"email.api_key":          "RESEND_API_KEY",
	"email.from":             "EMAIL_FROM",
	"email.merchant_address": "EMAIL_OWNER",
	"automation.url":         "MAKE_WEBHOOK_URL",
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("webhook.path", "/api/stripe-webhook")
	v.SetDefault("webhook.signature_header", "Stripe-Signature")
	v.SetDefault("webhook.tolerance", "5m")
	v.SetDefault("webhook.max_body_bytes", 1048576)

	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.api_url", "")
	v.SetDefault("stripe.timeout", "10s")

	v.SetDefault("email.api_key", "")
	v.SetDefault("email.api_url", "https://api.resend.com/emails")
	v.SetDefault("email.from", "Orders <noreply@example.com>")
	v.SetDefault("email.merchant_address", "")
	v.SetDefault("email.timeout", "10s")

	v.SetDefault("automation.url", "")
	v.SetDefault("automation.timezone", "Europe/Prague")
	v.SetDefault("automation.timeout", "10s")

	v.SetDefault("order.default_name", "customer")
	v.SetDefault("order.default_product", "Unknown product")
	v.SetDefault("order.item_placeholder", "Item")
	v.SetDefault("order.missing_email", "not provided")

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "checkout.orders.completed")
	v.SetDefault("nats.max_reconnects", -1)
	v.SetDefault("nats.reconnect_wait", "2s")

	v.SetDefault("dedupe.enabled", false)
	v.SetDefault("dedupe.redis_url", "redis://localhost:6379/0")
	v.SetDefault("dedupe.ttl", "72h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/checkouthook")
	}

	// Environment variables override (CHECKOUTHOOK_SERVER_PORT, etc.)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Only fail if a specific config path was given
		if configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// writeMargin is left on top of the outbound budget for verification, routing
// and writing the answer.
const writeMargin = 5 * time.Second

// OutboundBudget is the longest a single delivery can spend on outbound calls.
// They run one after another: enrichment, customer email, merchant email and
// the automation push.
func (c *Config) OutboundBudget() time.Duration {
	return c.Stripe.Timeout + 2*c.Email.Timeout + c.Automation.Timeout
}

// MinWriteTimeout is the smallest server write timeout that still lets the
// answer reach the provider after every outbound call has timed out.
func (c *Config) MinWriteTimeout() time.Duration {
	return c.OutboundBudget() + writeMargin
}

// EnsureWriteTimeout raises Server.WriteTimeout to MinWriteTimeout when it is
// shorter, and reports whether it did.
func (c *Config) EnsureWriteTimeout() bool {
	if c.Server.WriteTimeout <= 0 || c.Server.WriteTimeout >= c.MinWriteTimeout() {
		return false
	}
	c.Server.WriteTimeout = c.MinWriteTimeout()
	return true
}
