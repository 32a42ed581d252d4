package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"
)

// DisplayLayout is the day-first timestamp format expected by the spreadsheet.
const DisplayLayout = "02.01.2006 15:04:05"

const utcLayout = "2006-01-02T15:04:05.000Z07:00"

// AutomationPayload is the JSON body pushed to the automation endpoint.
type AutomationPayload struct {
	Email        string  `json:"email,omitempty"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Product      string  `json:"product,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	CreatedAtUTC string  `json:"createdAtUtc,omitempty"`
}

// AutomationSink pushes the order to an automation webhook (Make, Zapier, a
// spreadsheet bridge).
type AutomationSink struct {
	URL      string
	location *time.Location
	client   *http.Client
	now      func() time.Time
}

// NewAutomationSink creates the push sink. An empty timezone means UTC.
func NewAutomationSink(url, timezone string, timeout time.Duration) (*AutomationSink, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("load automation timezone %q: %w", timezone, err)
		}
		loc = l
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AutomationSink{
		URL:      strings.TrimSpace(url),
		location: loc,
		client: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}, nil
}

func (s *AutomationSink) Name() string {
	return SinkAutomation
}

// Payload builds the body pushed for d at the given instant.
func (s *AutomationSink) Payload(d Delivery, at time.Time) AutomationPayload {
	r := d.Order
	return AutomationPayload{
		Email:        r.Email,
		Name:         r.Name,
		Amount:       r.MajorUnits(),
		Currency:     strings.ToUpper(r.Currency),
		Product:      r.Product,
		CreatedAt:    at.In(s.location).Format(DisplayLayout),
		CreatedAtUTC: at.UTC().Format(utcLayout),
	}
}

// Notify is skipped when no URL is configured.
func (s *AutomationSink) Notify(ctx context.Context, d Delivery) Result {
	if s.URL == "" {
		return Skipped("automation url not set")
	}
	if err := s.push(ctx, s.Payload(d, s.now())); err != nil {
		return Failed(err)
	}
	return Sent()
}

func (s *AutomationSink) push(ctx context.Context, payload AutomationPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal automation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create automation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "checkouthook/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send automation push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
