package ports

import (
	"context"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// LinkRepository defines persistence operations for payment links.
// Create returns domain.ErrCodeConflict when the code collides with an
// existing row; the unique index is the authoritative collision signal.
type LinkRepository interface {
	Create(ctx context.Context, link *domain.PaymentLink) error
	GetByCode(ctx context.Context, code string) (*domain.PaymentLink, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PaymentLink, error)
	// TouchActive atomically increments the access counter of an active link
	// and returns the updated row, or nil if the code is unknown or inactive.
	TouchActive(ctx context.Context, code string) (*domain.PaymentLink, error)
	// Deactivate marks an owner's link inactive. Returns false if no active
	// link matched.
	Deactivate(ctx context.Context, ownerID uuid.UUID, code string) (bool, error)
}

// CredentialRepository defines persistence operations for vendor gateway
// credentials. Read-only from the checkout flow's perspective.
type CredentialRepository interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.GatewayCredential, error)
	Upsert(ctx context.Context, cred *domain.GatewayCredential) error
}

// VendorRepository defines persistence operations for vendor accounts.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	GetByUsername(ctx context.Context, username string) (*domain.Vendor, error)
}
