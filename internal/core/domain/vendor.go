package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a registered account that can own payment links and a gateway
// credential pair.
type Vendor struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	VendorName   string    `json:"vendor_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
