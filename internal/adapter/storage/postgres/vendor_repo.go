package postgres

import (
	"context"
	"errors"
	"fmt"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VendorRepo implements ports.VendorRepository.
type VendorRepo struct {
	pool Pool
}

// NewVendorRepo creates a new VendorRepo.
func NewVendorRepo(pool Pool) *VendorRepo {
	return &VendorRepo{pool: pool}
}

// Create inserts a new vendor account.
func (r *VendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	query := `INSERT INTO vendors (id, username, password_hash, vendor_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		v.ID, v.Username, v.PasswordHash, v.VendorName, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID fetches a vendor by its UUID.
func (r *VendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT id, username, password_hash, vendor_name, created_at, updated_at
		FROM vendors WHERE id = $1`

	return r.scanVendor(r.pool.QueryRow(ctx, query, id), "id")
}

// GetByUsername fetches a vendor by username.
func (r *VendorRepo) GetByUsername(ctx context.Context, username string) (*domain.Vendor, error) {
	query := `SELECT id, username, password_hash, vendor_name, created_at, updated_at
		FROM vendors WHERE username = $1`

	return r.scanVendor(r.pool.QueryRow(ctx, query, username), "username")
}

func (r *VendorRepo) scanVendor(row pgx.Row, by string) (*domain.Vendor, error) {
	v := &domain.Vendor{}
	err := row.Scan(
		&v.ID, &v.Username, &v.PasswordHash, &v.VendorName, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by %s: %w", by, err)
	}
	return v, nil
}
