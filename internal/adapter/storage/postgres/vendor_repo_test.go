package postgres

import (
	"context"
	"testing"
	"time"

	"pix-link-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVendor() *domain.Vendor {
	now := time.Now().UTC()
	return &domain.Vendor{
		ID:           uuid.New(),
		Username:     "loja-do-pedro",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		VendorName:   "Loja do Pedro",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func vendorRow(v *domain.Vendor) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "password_hash", "vendor_name", "created_at", "updated_at"}).
		AddRow(v.ID, v.Username, v.PasswordHash, v.VendorName, v.CreatedAt, v.UpdatedAt)
}

func TestVendorRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewVendorRepo(mock)
	v := newTestVendor()

	mock.ExpectExec("INSERT INTO vendors").
		WithArgs(v.ID, v.Username, v.PasswordHash, v.VendorName, v.CreatedAt, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), v)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepo_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewVendorRepo(mock)
	v := newTestVendor()

	mock.ExpectQuery("SELECT .+ FROM vendors WHERE username").
		WithArgs(v.Username).
		WillReturnRows(vendorRow(v))

	result, err := repo.GetByUsername(context.Background(), v.Username)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, v.ID, result.ID)
	assert.Equal(t, v.VendorName, result.VendorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepo_GetByUsername_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewVendorRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM vendors WHERE username").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "vendor_name", "created_at", "updated_at"}))

	result, err := repo.GetByUsername(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewVendorRepo(mock)
	v := newTestVendor()

	mock.ExpectQuery("SELECT .+ FROM vendors WHERE id").
		WithArgs(v.ID).
		WillReturnRows(vendorRow(v))

	result, err := repo.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, v.Username, result.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
