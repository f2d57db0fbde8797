package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrCodeConflict is returned by link stores when an insert collides with an
// existing code. The unique index on payment_links.code is the authoritative
// collision signal; a prior existence check only narrows the race window.
var ErrCodeConflict = errors.New("payment link code already exists")

// PaymentLink is a shareable one-time-fee collection link. The payer-facing
// flow never mutates it except for the access counter.
type PaymentLink struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	AccessCount int64           `json:"access_count"`
	OwnerID     *uuid.UUID      `json:"owner_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HasOwner returns true if the link routes settlement to a vendor rather
// than the platform operator.
func (l *PaymentLink) HasOwner() bool {
	return l.OwnerID != nil
}

// URL returns the shareable payer URL for the link.
func (l *PaymentLink) URL(origin string) string {
	return fmt.Sprintf("%s/pagar/%s", origin, l.Code)
}
