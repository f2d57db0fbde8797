package service

import (
	"context"
	"testing"
	"time"

	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/internal/core/ports/mocks"
	"pix-link-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type linkTestDeps struct {
	svc      *LinkServiceImpl
	linkRepo *mocks.MockLinkRepository
	codeGen  *mocks.MockCodeGenerator
	cache    *mocks.MockLinkCache
	ctrl     *gomock.Controller
}

func setupLinkService(t *testing.T) *linkTestDeps {
	ctrl := gomock.NewController(t)
	d := &linkTestDeps{
		linkRepo: mocks.NewMockLinkRepository(ctrl),
		codeGen:  mocks.NewMockCodeGenerator(ctrl),
		cache:    mocks.NewMockLinkCache(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewLinkService(d.linkRepo, d.codeGen, d.cache, zerolog.Nop())
	return d
}

func activeLink(code string, amount string) *domain.PaymentLink {
	owner := uuid.New()
	return &domain.PaymentLink{
		ID:        uuid.New(),
		Code:      code,
		Amount:    decimal.RequireFromString(amount),
		IsActive:  true,
		OwnerID:   &owner,
		CreatedAt: time.Now().UTC(),
	}
}

func TestLinkService_CreateLink_Success(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	owner := uuid.New()

	d.codeGen.EXPECT().Generate(ctx).Return("XK42PM", nil)
	d.linkRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	link, err := d.svc.CreateLink(ctx, ports.CreateLinkRequest{
		OwnerID: &owner,
		Amount:  decimal.RequireFromString("214.80"),
	})
	require.NoError(t, err)
	assert.Equal(t, "XK42PM", link.Code)
	assert.True(t, link.IsActive)
	assert.Equal(t, int64(0), link.AccessCount)
	assert.Equal(t, &owner, link.OwnerID)
}

func TestLinkService_CreateLink_NonPositiveAmount(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.CreateLink(context.Background(), ports.CreateLinkRequest{
		Amount: decimal.Zero,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestLinkService_CreateLink_RetriesOnConflict(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	gomock.InOrder(
		d.codeGen.EXPECT().Generate(ctx).Return("XK42PM", nil),
		d.linkRepo.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrCodeConflict),
		d.codeGen.EXPECT().Generate(ctx).Return("QN77RT", nil),
		d.linkRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil),
	)

	link, err := d.svc.CreateLink(ctx, ports.CreateLinkRequest{
		Amount: decimal.RequireFromString("150.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "QN77RT", link.Code)
}

func TestLinkService_CreateLink_Exhausted(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.codeGen.EXPECT().Generate(ctx).Return("XK42PM", nil).Times(maxCreateAttempts)
	d.linkRepo.EXPECT().Create(ctx, gomock.Any()).Return(domain.ErrCodeConflict).Times(maxCreateAttempts)

	_, err := d.svc.CreateLink(ctx, ports.CreateLinkRequest{
		Amount: decimal.RequireFromString("150.00"),
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LNK_002", appErr.Code)
}

func TestLinkService_GetLink_CacheHit(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	link := activeLink("ABC123", "150.00")

	d.cache.EXPECT().Get(ctx, "ABC123").Return(link, nil)

	result, err := d.svc.GetLink(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, link, result)
}

func TestLinkService_GetLink_CacheMiss(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	link := activeLink("ABC123", "150.00")

	d.cache.EXPECT().Get(ctx, "ABC123").Return(nil, nil)
	d.linkRepo.EXPECT().GetByCode(ctx, "ABC123").Return(link, nil)
	d.cache.EXPECT().Set(ctx, link, linkCacheTTL).Return(nil)

	result, err := d.svc.GetLink(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, link, result)
}

func TestLinkService_GetLink_Unknown(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, "DEAD99").Return(nil, nil)
	d.linkRepo.EXPECT().GetByCode(ctx, "DEAD99").Return(nil, nil)

	_, err := d.svc.GetLink(ctx, "DEAD99")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LNK_001", appErr.Code)
}

func TestLinkService_GetLink_InactiveCached(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	link := activeLink("ABC123", "150.00")
	link.IsActive = false

	d.cache.EXPECT().Get(ctx, "ABC123").Return(link, nil)

	_, err := d.svc.GetLink(ctx, "ABC123")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LNK_001", appErr.Code)
}

func TestLinkService_ResolveAndTouch_Success(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	link := activeLink("ABC123", "150.00")
	link.AccessCount = 8

	d.linkRepo.EXPECT().TouchActive(ctx, "ABC123").Return(link, nil)
	d.cache.EXPECT().Set(ctx, link, linkCacheTTL).Return(nil)

	result, err := d.svc.ResolveAndTouch(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(8), result.AccessCount)
}

func TestLinkService_ResolveAndTouch_Invalid(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.linkRepo.EXPECT().TouchActive(ctx, "DEAD99").Return(nil, nil)

	_, err := d.svc.ResolveAndTouch(ctx, "DEAD99")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LNK_001", appErr.Code)
}

func TestLinkService_DeactivateLink(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	owner := uuid.New()

	d.linkRepo.EXPECT().Deactivate(ctx, owner, "ABC123").Return(true, nil)
	d.cache.EXPECT().Invalidate(ctx, "ABC123").Return(nil)

	err := d.svc.DeactivateLink(ctx, owner, "ABC123")
	assert.NoError(t, err)
}

func TestLinkService_DeactivateLink_NotFound(t *testing.T) {
	d := setupLinkService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	owner := uuid.New()

	d.linkRepo.EXPECT().Deactivate(ctx, owner, "DEAD99").Return(false, nil)

	err := d.svc.DeactivateLink(ctx, owner, "DEAD99")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LNK_001", appErr.Code)
}
