package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// maxCreateAttempts bounds retries when the store's unique index rejects
	// a code that passed the generator's existence check.
	maxCreateAttempts = 5
	linkCacheTTL      = 5 * time.Minute
)

// LinkServiceImpl implements ports.LinkService.
type LinkServiceImpl struct {
	linkRepo ports.LinkRepository
	codeGen  ports.CodeGenerator
	cache    ports.LinkCache
	log      zerolog.Logger
}

// NewLinkService creates a new LinkServiceImpl.
func NewLinkService(
	linkRepo ports.LinkRepository,
	codeGen ports.CodeGenerator,
	cache ports.LinkCache,
	log zerolog.Logger,
) *LinkServiceImpl {
	return &LinkServiceImpl{
		linkRepo: linkRepo,
		codeGen:  codeGen,
		cache:    cache,
		log:      log,
	}
}

// CreateLink mints a code and persists the link. A code collision at insert
// time burns one attempt and retries with a fresh code.
func (s *LinkServiceImpl) CreateLink(ctx context.Context, req ports.CreateLinkRequest) (*domain.PaymentLink, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := s.codeGen.Generate(ctx)
		if err != nil {
			return nil, err
		}

		link := &domain.PaymentLink{
			ID:          uuid.New(),
			Code:        code,
			Amount:      req.Amount,
			Description: req.Description,
			IsActive:    true,
			OwnerID:     req.OwnerID,
			CreatedAt:   time.Now().UTC(),
		}

		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, domain.ErrCodeConflict) {
			s.log.Warn().Str("code", code).Int("attempt", attempt+1).
				Msg("Link code collided at insert, retrying")
			continue
		}
		return nil, apperror.InternalError(fmt.Errorf("create link: %w", err))
	}
	return nil, apperror.ErrGenerationExhausted()
}

// ListLinks returns all links owned by a vendor.
func (s *LinkServiceImpl) ListLinks(ctx context.Context, ownerID uuid.UUID) ([]domain.PaymentLink, error) {
	links, err := s.linkRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list links: %w", err))
	}
	return links, nil
}

// DeactivateLink marks an owner's link inactive and drops it from the cache.
func (s *LinkServiceImpl) DeactivateLink(ctx context.Context, ownerID uuid.UUID, code string) error {
	found, err := s.linkRepo.Deactivate(ctx, ownerID, code)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("deactivate link: %w", err))
	}
	if !found {
		return apperror.ErrInvalidLink()
	}
	if err := s.cache.Invalidate(ctx, code); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Failed to invalidate link cache")
	}
	return nil
}

// GetLink loads an active link for display without touching the counter.
// Served from cache when possible.
func (s *LinkServiceImpl) GetLink(ctx context.Context, code string) (*domain.PaymentLink, error) {
	cached, err := s.cache.Get(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Link cache read failed")
	}
	if cached != nil {
		if !cached.IsActive {
			return nil, apperror.ErrInvalidLink()
		}
		return cached, nil
	}

	link, err := s.linkRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get link: %w", err))
	}
	if link == nil || !link.IsActive {
		return nil, apperror.ErrInvalidLink()
	}

	if err := s.cache.Set(ctx, link, linkCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Link cache write failed")
	}
	return link, nil
}

// ResolveAndTouch validates the link and increments its access counter in one
// store round trip. Unknown and inactive codes are indistinguishable to the
// caller.
func (s *LinkServiceImpl) ResolveAndTouch(ctx context.Context, code string) (*domain.PaymentLink, error) {
	link, err := s.linkRepo.TouchActive(ctx, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("touch link: %w", err))
	}
	if link == nil {
		return nil, apperror.ErrInvalidLink()
	}

	// Keep the cached copy's counter from drifting too far behind.
	if err := s.cache.Set(ctx, link, linkCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Link cache write failed")
	}
	return link, nil
}
