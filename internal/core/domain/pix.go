package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer holds the payer identity sent to the gateway.
type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"` // CPF, any formatting
}

// DocumentDigits returns the document stripped of all non-digit characters,
// the only form the gateway accepts.
func (c Customer) DocumentDigits() string {
	var b strings.Builder
	for _, r := range c.Document {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PixTransaction is the normalized result of a gateway charge creation.
// It is ephemeral: rendered to the payer, never persisted.
type PixTransaction struct {
	AmountMinorUnits int64      `json:"amount_minor_units"`
	Customer         Customer   `json:"customer"`
	PayCode          string     `json:"pay_code"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// MinorUnits converts a decimal currency amount to integer minor units
// (centavos), rounding half away from zero to the nearest integer.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
