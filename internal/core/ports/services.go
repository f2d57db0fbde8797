package ports

import (
	"context"
	"time"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeGenerator mints short link codes that do not exist in the link store
// at call time. Generation is bounded; exhaustion is an error, not a retry
// loop.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// CredentialResolver picks the gateway credential pair for one checkout.
// nil or empty linkCode selects the platform-default pair.
type CredentialResolver interface {
	Resolve(ctx context.Context, linkCode *string) (domain.ResolvedCredentials, error)
}

// PixGateway creates a charge at the upstream gateway and normalizes the
// response into a single internal shape.
type PixGateway interface {
	CreatePixTransaction(ctx context.Context, req PixChargeRequest, creds domain.ResolvedCredentials) (*domain.PixTransaction, error)
}

// PixChargeRequest holds the validated input for a gateway charge.
type PixChargeRequest struct {
	Amount    decimal.Decimal
	Customer  domain.Customer
	ItemTitle string
}

// LinkCache caches link records for the public preview path.
// Get returns nil, nil on a miss.
type LinkCache interface {
	Get(ctx context.Context, code string) (*domain.PaymentLink, error)
	Set(ctx context.Context, link *domain.PaymentLink, ttl time.Duration) error
	Invalidate(ctx context.Context, code string) error
}

// --- Service Ports (Business Logic) ---

// LinkService defines link management and the payer-facing link lifecycle.
type LinkService interface {
	CreateLink(ctx context.Context, req CreateLinkRequest) (*domain.PaymentLink, error)
	ListLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.PaymentLink, error)
	DeactivateLink(ctx context.Context, ownerID uuid.UUID, code string) error
	// GetLink loads an active link for display without touching the counter.
	GetLink(ctx context.Context, code string) (*domain.PaymentLink, error)
	// ResolveAndTouch validates the link and increments its access counter in
	// one operation. Unknown or inactive codes fail with InvalidLink.
	ResolveAndTouch(ctx context.Context, code string) (*domain.PaymentLink, error)
}

// CreateLinkRequest holds validated input for link creation.
type CreateLinkRequest struct {
	OwnerID     *uuid.UUID
	Amount      decimal.Decimal
	Description *string
}

// CheckoutService drives the full charge flow: link resolution, credential
// routing, the gateway call, and instrument registration.
type CheckoutService interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ChargeRequest holds validated input for a checkout. LinkCode nil means a
// platform-routed charge with an explicit Amount.
type ChargeRequest struct {
	LinkCode *string
	Amount   decimal.Decimal
	Customer domain.Customer
}

// ChargeResult is the payer-facing outcome of a successful charge.
type ChargeResult struct {
	InstrumentID     uuid.UUID
	PayCode          string
	QRCodePNG        []byte
	AmountMinorUnits int64
	ExpiresAt        time.Time
	Source           domain.CredentialSource
}

// InstrumentTracker owns the live countdown state of generated instruments.
type InstrumentTracker interface {
	// Begin registers a Pending instrument and returns its ID.
	Begin() uuid.UUID
	// Activate moves an instrument to Active with its pay code and deadline.
	Activate(id uuid.UUID, payCode string, expiresAt time.Time) error
	// Fail moves a Pending instrument to the terminal Errored state.
	Fail(id uuid.UUID)
	// Status re-evaluates and reports an instrument's countdown.
	Status(id uuid.UUID) (*InstrumentStatus, bool)
}

// InstrumentStatus is a point-in-time view of one instrument.
type InstrumentStatus struct {
	State     domain.InstrumentState
	Remaining time.Duration
	ExpiresAt time.Time
}

// CredentialService manages a vendor's own gateway key pair.
type CredentialService interface {
	GetCredentials(ctx context.Context, ownerID uuid.UUID) (*domain.GatewayCredential, error)
	SaveCredentials(ctx context.Context, ownerID uuid.UUID, publicKey, secretKey string) error
}

// AuthService defines vendor authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Vendor, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for vendor registration.
type RegisterRequest struct {
	Username   string
	Password   string
	VendorName string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(vendorID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	VendorID uuid.UUID
	Username string
}
