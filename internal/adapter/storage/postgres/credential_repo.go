package postgres

import (
	"context"
	"errors"
	"fmt"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CredentialRepo implements ports.CredentialRepository.
type CredentialRepo struct {
	pool Pool
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(pool Pool) *CredentialRepo {
	return &CredentialRepo{pool: pool}
}

// GetByOwner fetches a vendor's gateway credential pair.
func (r *CredentialRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.GatewayCredential, error) {
	query := `SELECT owner_id, public_key, secret_key, updated_at
		FROM gateway_credentials WHERE owner_id = $1`

	c := &domain.GatewayCredential{}
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&c.OwnerID, &c.PublicKey, &c.SecretKey, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gateway credential: %w", err)
	}
	return c, nil
}

// Upsert inserts or replaces a vendor's credential pair.
func (r *CredentialRepo) Upsert(ctx context.Context, c *domain.GatewayCredential) error {
	query := `INSERT INTO gateway_credentials (owner_id, public_key, secret_key, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (owner_id) DO UPDATE
		SET public_key = EXCLUDED.public_key, secret_key = EXCLUDED.secret_key, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, c.OwnerID, c.PublicKey, c.SecretKey)
	if err != nil {
		return fmt.Errorf("upsert gateway credential: %w", err)
	}
	return nil
}
