package postgres

import (
	"context"
	"errors"
	"fmt"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// LinkRepo implements ports.LinkRepository.
type LinkRepo struct {
	pool Pool
}

// NewLinkRepo creates a new LinkRepo.
func NewLinkRepo(pool Pool) *LinkRepo {
	return &LinkRepo{pool: pool}
}

// Create inserts a new payment link. A unique-index collision on code is
// returned as domain.ErrCodeConflict so callers can retry with a fresh code.
func (r *LinkRepo) Create(ctx context.Context, l *domain.PaymentLink) error {
	query := `INSERT INTO payment_links (id, code, amount, description, is_active, access_count, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		l.ID, l.Code, l.Amount.String(), l.Description,
		l.IsActive, l.AccessCount, l.OwnerID, l.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrCodeConflict
		}
		return fmt.Errorf("insert payment link: %w", err)
	}
	return nil
}

// GetByCode fetches a link by its code regardless of active state.
func (r *LinkRepo) GetByCode(ctx context.Context, code string) (*domain.PaymentLink, error) {
	query := `SELECT id, code, amount::text, description, is_active, access_count, owner_id, created_at
		FROM payment_links WHERE code = $1`

	l, err := scanLink(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment link by code: %w", err)
	}
	return l, nil
}

// ExistsByCode checks whether a code is already taken.
func (r *LinkRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payment_links WHERE code = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check payment link code: %w", err)
	}
	return exists, nil
}

// ListByOwner fetches all links owned by a vendor, newest first.
func (r *LinkRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PaymentLink, error) {
	query := `SELECT id, code, amount::text, description, is_active, access_count, owner_id, created_at
		FROM payment_links WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list payment links: %w", err)
	}
	defer rows.Close()

	var links []domain.PaymentLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment link: %w", err)
		}
		links = append(links, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment links: %w", err)
	}
	return links, nil
}

// TouchActive increments the access counter of an active link in a single
// statement and returns the updated row. Returns nil, nil when the code is
// unknown or the link is inactive.
func (r *LinkRepo) TouchActive(ctx context.Context, code string) (*domain.PaymentLink, error) {
	query := `UPDATE payment_links SET access_count = access_count + 1
		WHERE code = $1 AND is_active
		RETURNING id, code, amount::text, description, is_active, access_count, owner_id, created_at`

	l, err := scanLink(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("touch payment link: %w", err)
	}
	return l, nil
}

// Deactivate marks an owner's active link inactive.
func (r *LinkRepo) Deactivate(ctx context.Context, ownerID uuid.UUID, code string) (bool, error) {
	query := `UPDATE payment_links SET is_active = FALSE WHERE code = $1 AND owner_id = $2 AND is_active`

	tag, err := r.pool.Exec(ctx, query, code, ownerID)
	if err != nil {
		return false, fmt.Errorf("deactivate payment link: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanLink reads one payment_links row. Amount travels as text to keep the
// numeric column exact.
func scanLink(row pgx.Row) (*domain.PaymentLink, error) {
	l := &domain.PaymentLink{}
	var amountStr string
	err := row.Scan(
		&l.ID, &l.Code, &amountStr, &l.Description,
		&l.IsActive, &l.AccessCount, &l.OwnerID, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amountStr, err)
	}
	return l, nil
}
