// Package order maps a verified checkout completion into the normalized order
// record consumed by the notification sinks.
package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCheckout is returned when Extract is given no checkout payload.
	ErrNoCheckout = errors.New("no checkout payload")

	// ErrNegativeAmount is returned when the provider reports a total below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrInvalidCurrency is returned when the currency is not a 3-letter code.
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)

// Record is the normalized view of one completed order. It is built once per
// verified event and never modified afterwards.
type Record struct {
	SessionID   string `json:"session_id" yaml:"session_id"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Name        string `json:"name" yaml:"name"`
	AmountMinor int64  `json:"amount_minor" yaml:"amount_minor"`
	Currency    string `json:"currency" yaml:"currency"`
	Product     string `json:"product,omitempty" yaml:"product,omitempty"`
}

// HasEmail reports whether the customer left an email address.
func (r Record) HasEmail() bool {
	return r.Email != ""
}

// FormattedAmount renders the total for display, e.g. "19.90 CZK".
func (r Record) FormattedAmount() string {
	return FormatAmount(r.AmountMinor, r.Currency)
}

// MajorUnits returns the total in major currency units.
func (r Record) MajorUnits() float64 {
	return MajorUnits(r.AmountMinor)
}

// FormatAmount renders minor units with two decimals and an upper-case
// currency code.
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, strings.ToUpper(currency))
}

// MajorUnits converts minor units to major units assuming two decimals.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

func validate(r *Record) error {
	if r.AmountMinor < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAmount, r.AmountMinor)
	}
	if !isCurrencyCode(r.Currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, r.Currency)
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
