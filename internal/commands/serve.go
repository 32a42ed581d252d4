package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bbcraft/checkout-hook/internal/config"
	"github.com/bbcraft/checkout-hook/internal/dedupe"
	"github.com/bbcraft/checkout-hook/internal/handlers"
	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/mailclient"
	natsclient "github.com/bbcraft/checkout-hook/internal/messaging/nats"
	"github.com/bbcraft/checkout-hook/internal/notify"
	"github.com/bbcraft/checkout-hook/internal/order"
	"github.com/bbcraft/checkout-hook/internal/server"
	"github.com/bbcraft/checkout-hook/internal/service"
	"github.com/bbcraft/checkout-hook/internal/stripeclient"
	"github.com/bbcraft/checkout-hook/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook receiver",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("checkouthook"))
	logging.SetDefault(logger)

	slog.Info("Starting checkout webhook receiver",
		slog.Int("port", cfg.Server.Port),
		slog.String("webhook_path", cfg.Webhook.Path),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if cfgFile != "" {
		slog.Info("Loaded configuration", slog.String("config_path", cfgFile))
	}

	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Webhook receiver listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

type app struct {
	server  *http.Server
	sinks   []string
	closers []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("shutdown cleanup failed", logging.Error(err))
		}
	}
}

// buildApp wires every collaborator from cfg. Optional dependencies that
// cannot be reached are logged and left out; nothing here is fatal except an
// unusable automation timezone.
func buildApp(cfg *config.Config, logger *logging.Logger) (*app, error) {
	a := &app{}
	checks := map[string]handlers.Check{}

	configured := cfg.Server.WriteTimeout
	if cfg.EnsureWriteTimeout() {
		logger.Warn("server.write_timeout is shorter than the outbound calls of one delivery, raising it",
			slog.Duration("configured", configured),
			slog.Duration("outbound_budget", cfg.OutboundBudget()),
			slog.Duration("write_timeout", cfg.Server.WriteTimeout))
	}

	if cfg.Stripe.WebhookSecret == "" {
		logger.Warn("stripe.webhook_secret is not set, every delivery will be rejected")
	}
	verifier := webhook.NewStripeVerifier(cfg.Stripe.WebhookSecret, cfg.Webhook.Tolerance)

	var fetcher order.LineItemFetcher
	stripeClient, err := stripeclient.New(stripeclient.Config{
		SecretKey: cfg.Stripe.SecretKey,
		APIURL:    cfg.Stripe.APIURL,
		Timeout:   cfg.Stripe.Timeout,
	})
	switch {
	case err == nil:
		fetcher = stripeClient
	case errors.Is(err, stripeclient.ErrNotConfigured):
		logger.Warn("stripe.secret_key is not set, line item enrichment disabled")
	default:
		return nil, fmt.Errorf("create stripe client: %w", err)
	}

	extractor := order.NewExtractor(fetcher, order.Placeholders{
		Name:    cfg.Order.DefaultName,
		Product: cfg.Order.DefaultProduct,
		Item:    cfg.Order.ItemPlaceholder,
	}, logger)

	mailer := mailclient.New(cfg.Email.APIKey, cfg.Email.APIURL, cfg.Email.Timeout)
	automation, err := notify.NewAutomationSink(cfg.Automation.URL, cfg.Automation.Timezone, cfg.Automation.Timeout)
	if err != nil {
		return nil, err
	}

	sinks := []notify.Sink{
		notify.NewCustomerEmailSink(mailer, cfg.Email.From),
		notify.NewMerchantEmailSink(mailer, cfg.Email.From, cfg.Email.MerchantAddress, cfg.Order.MissingEmail),
		automation,
	}

	if cfg.NATS.Enabled {
		bus, err := natsclient.NewClient(natsclient.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		}, logger)
		if err != nil {
			logger.Warn("order bus unavailable, continuing without it", logging.Error(err))
		} else {
			sinks = append(sinks, notify.NewBusSink(bus, cfg.NATS.Subject))
			checks["nats"] = bus.CheckHealth
			a.closers = append(a.closers, bus.Drain)
			logger.Info("order bus enabled", slog.String("subject", cfg.NATS.Subject))
		}
	}

	var store dedupe.Store = dedupe.NoOpStore{}
	if cfg.Dedupe.Enabled {
		redisStore, err := dedupe.NewRedisStore(cfg.Dedupe.RedisURL, cfg.Dedupe.TTL)
		if err != nil {
			logger.Warn("dedupe store unavailable, continuing without it", logging.Error(err))
		} else {
			store = redisStore
			checks["redis"] = redisStore.Ping
			a.closers = append(a.closers, redisStore.Close)
			logger.Info("delivery dedupe enabled", slog.Duration("ttl", cfg.Dedupe.TTL))
		}
	}

	fanout := notify.NewFanout(logger, sinks...)
	a.sinks = fanout.Sinks()
	router := service.NewRouter(extractor, fanout, store, logger)

	wh := handlers.NewWebhookHandler(verifier, router, handlers.WebhookOptions{
		SignatureHeader: cfg.Webhook.SignatureHeader,
		MaxBodyBytes:    cfg.Webhook.MaxBodyBytes,
	}, logger)

	a.server = &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.NewRouter(server.Routes{
			WebhookPath: cfg.Webhook.Path,
			Webhook:     wh,
			Health:      handlers.NewHealthHandler(nil, checks),
			Logger:      logger,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}
