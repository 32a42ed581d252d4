package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bbcraft/checkout-hook/internal/logging"
	"github.com/bbcraft/checkout-hook/internal/order"
	"github.com/bbcraft/checkout-hook/internal/webhook"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <payload-file|->",
	Short: "Show the order a payload would produce",
	Long: `Decodes an event payload without checking its signature and prints the
event kind and the extracted order record. With --verify the payload is
checked against --signature and the configured secret first.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("output", "o", "yaml", "output format: yaml, json")
	inspectCmd.Flags().Bool("verify", false, "verify --signature before decoding")
	inspectCmd.Flags().String("signature", "", "signature header value used with --verify")
	rootCmd.AddCommand(inspectCmd)
}

type inspection struct {
	EventID         string        `json:"event_id" yaml:"event_id"`
	Type            string        `json:"type" yaml:"type"`
	Kind            string        `json:"kind" yaml:"kind"`
	Created         string        `json:"created,omitempty" yaml:"created,omitempty"`
	Order           *order.Record `json:"order,omitempty" yaml:"order,omitempty"`
	FormattedAmount string        `json:"formatted_amount,omitempty" yaml:"formatted_amount,omitempty"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "yaml" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	payload, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var event *webhook.Event
	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		signature, _ := cmd.Flags().GetString("signature")
		event, err = webhook.NewStripeVerifier(cfg.Stripe.WebhookSecret, cfg.Webhook.Tolerance).Verify(payload, signature)
	} else {
		event, err = webhook.DecodePayload(payload)
	}
	if err != nil {
		return err
	}

	result := inspection{
		EventID: event.ID,
		Type:    event.Type,
		Kind:    event.Kind.String(),
	}
	if !event.Created.IsZero() {
		result.Created = event.Created.Format(time.RFC3339)
	}

	if event.Kind == webhook.KindCheckoutCompleted {
		extractor := order.NewExtractor(nil, order.Placeholders{
			Name:    cfg.Order.DefaultName,
			Product: cfg.Order.DefaultProduct,
			Item:    cfg.Order.ItemPlaceholder,
		}, logging.Discard())

		record, err := extractor.Extract(cmd.Context(), event.Checkout)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Order = record
			result.FormattedAmount = record.FormattedAmount()
		}
	}

	return render(cmd, output, result)
}

func render(cmd *cobra.Command, output string, v any) error {
	out := cmd.OutOrStdout()
	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
}
