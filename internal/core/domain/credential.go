package domain

import (
	"time"

	"github.com/google/uuid"
)

// GatewayCredential is a vendor-owned gateway key pair. Both halves are
// required together; a partial pair counts as not configured.
type GatewayCredential struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	PublicKey string    `json:"public_key"`
	SecretKey string    `json:"-"` // Never expose
	UpdatedAt time.Time `json:"updated_at"`
}

// IsComplete returns true if both halves of the pair are present.
func (c *GatewayCredential) IsComplete() bool {
	return c.PublicKey != "" && c.SecretKey != ""
}

// CredentialSource identifies which account a checkout settles against.
type CredentialSource string

const (
	CredentialSourcePlatform CredentialSource = "platform"
	CredentialSourceVendor   CredentialSource = "vendor"
)

// ResolvedCredentials is the pair selected for one checkout, with its
// provenance. Source must be deterministic from the link alone.
type ResolvedCredentials struct {
	PublicKey string
	SecretKey string
	Source    CredentialSource
}
