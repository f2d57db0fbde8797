package service

import (
	"context"
	"fmt"

	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"

	"github.com/google/uuid"
)

// CredentialServiceImpl implements ports.CredentialService.
type CredentialServiceImpl struct {
	credRepo ports.CredentialRepository
}

// NewCredentialService creates a new CredentialServiceImpl.
func NewCredentialService(credRepo ports.CredentialRepository) *CredentialServiceImpl {
	return &CredentialServiceImpl{credRepo: credRepo}
}

// GetCredentials returns a vendor's stored pair, or nil when none exists.
func (s *CredentialServiceImpl) GetCredentials(ctx context.Context, ownerID uuid.UUID) (*domain.GatewayCredential, error) {
	cred, err := s.credRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get credentials: %w", err))
	}
	return cred, nil
}

// SaveCredentials stores a vendor's pair. Both halves are required together;
// a partial pair would route checkouts into CFG_001 at charge time.
func (s *CredentialServiceImpl) SaveCredentials(ctx context.Context, ownerID uuid.UUID, publicKey, secretKey string) error {
	if publicKey == "" || secretKey == "" {
		return apperror.Validation("both public_key and secret_key are required")
	}

	cred := &domain.GatewayCredential{
		OwnerID:   ownerID,
		PublicKey: publicKey,
		SecretKey: secretKey,
	}
	if err := s.credRepo.Upsert(ctx, cred); err != nil {
		return apperror.InternalError(fmt.Errorf("save credentials: %w", err))
	}
	return nil
}
