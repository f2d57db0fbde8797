package service

import (
	"context"
	"fmt"

	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// RoutingResolver implements ports.CredentialResolver. The routing rule is
// deterministic from the link alone: an owned link settles against the
// owner's pair, everything else against the platform pair. There is no
// fallback from a misconfigured vendor to the platform account.
type RoutingResolver struct {
	linkRepo ports.LinkRepository
	credRepo ports.CredentialRepository
	platform domain.ResolvedCredentials
	log      zerolog.Logger
}

// NewRoutingResolver creates a resolver with the platform-default pair.
func NewRoutingResolver(
	linkRepo ports.LinkRepository,
	credRepo ports.CredentialRepository,
	platformPublicKey, platformSecretKey string,
	log zerolog.Logger,
) *RoutingResolver {
	return &RoutingResolver{
		linkRepo: linkRepo,
		credRepo: credRepo,
		platform: domain.ResolvedCredentials{
			PublicKey: platformPublicKey,
			SecretKey: platformSecretKey,
			Source:    domain.CredentialSourcePlatform,
		},
		log: log,
	}
}

// Resolve picks the credential pair for one checkout. nil or empty linkCode
// selects the platform-default pair.
func (r *RoutingResolver) Resolve(ctx context.Context, linkCode *string) (domain.ResolvedCredentials, error) {
	if linkCode == nil || *linkCode == "" {
		return r.platformPair()
	}

	link, err := r.linkRepo.GetByCode(ctx, *linkCode)
	if err != nil {
		return domain.ResolvedCredentials{}, apperror.InternalError(fmt.Errorf("resolve link: %w", err))
	}
	if link == nil || !link.IsActive {
		return domain.ResolvedCredentials{}, apperror.ErrInvalidLink()
	}

	if !link.HasOwner() {
		return r.platformPair()
	}

	cred, err := r.credRepo.GetByOwner(ctx, *link.OwnerID)
	if err != nil {
		return domain.ResolvedCredentials{}, apperror.InternalError(fmt.Errorf("load vendor credentials: %w", err))
	}
	if cred == nil || !cred.IsComplete() {
		// Logged with the owner for operators; the payer sees the same
		// envelope as a missing platform pair.
		r.log.Error().
			Str("link_code", *linkCode).
			Str("owner_id", link.OwnerID.String()).
			Msg("Vendor gateway credentials missing or incomplete")
		return domain.ResolvedCredentials{}, apperror.ErrVendorCredentialsIncomplete()
	}

	return domain.ResolvedCredentials{
		PublicKey: cred.PublicKey,
		SecretKey: cred.SecretKey,
		Source:    domain.CredentialSourceVendor,
	}, nil
}

func (r *RoutingResolver) platformPair() (domain.ResolvedCredentials, error) {
	if r.platform.PublicKey == "" || r.platform.SecretKey == "" {
		r.log.Error().Msg("Platform gateway credentials not configured")
		return domain.ResolvedCredentials{}, apperror.ErrConfigMissing()
	}
	return r.platform, nil
}
