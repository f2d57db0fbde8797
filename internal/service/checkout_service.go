package service

import (
	"context"
	"fmt"
	"time"

	"pix-link-gateway/config"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

// CheckoutServiceImpl implements ports.CheckoutService. It drives the full
// charge flow: link resolution and counting, credential routing, the gateway
// call, and instrument registration.
type CheckoutServiceImpl struct {
	linkSvc  ports.LinkService
	resolver ports.CredentialResolver
	gateway  ports.PixGateway
	tracker  ports.InstrumentTracker
	cfg      config.GatewayConfig
	log      zerolog.Logger
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(
	linkSvc ports.LinkService,
	resolver ports.CredentialResolver,
	gateway ports.PixGateway,
	tracker ports.InstrumentTracker,
	cfg config.GatewayConfig,
	log zerolog.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		linkSvc:  linkSvc,
		resolver: resolver,
		gateway:  gateway,
		tracker:  tracker,
		cfg:      cfg,
		log:      log,
	}
}

// CreateCharge creates a PIX charge. Link-routed requests validate and count
// the link before anything else: an invalid link never reaches the gateway.
func (s *CheckoutServiceImpl) CreateCharge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	amount := req.Amount
	itemTitle := s.cfg.ItemTitle

	if req.LinkCode != nil && *req.LinkCode != "" {
		link, err := s.linkSvc.ResolveAndTouch(ctx, *req.LinkCode)
		if err != nil {
			return nil, err
		}
		// The link's amount is authoritative; client-supplied amounts are
		// ignored on link-routed checkouts.
		amount = link.Amount
		if link.Description != nil && *link.Description != "" {
			itemTitle = *link.Description
		}
	} else if !amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}

	creds, err := s.resolver.Resolve(ctx, req.LinkCode)
	if err != nil {
		return nil, err
	}

	id := s.tracker.Begin()

	tx, err := s.gateway.CreatePixTransaction(ctx, ports.PixChargeRequest{
		Amount:    amount,
		Customer:  req.Customer,
		ItemTitle: itemTitle,
	}, creds)
	if err != nil {
		s.tracker.Fail(id)
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.cfg.PixExpiry)
	if tx.ExpiresAt != nil {
		expiresAt = *tx.ExpiresAt
	}

	if err := s.tracker.Activate(id, tx.PayCode, expiresAt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("activate instrument: %w", err))
	}

	// The copy-paste code is the primary affordance; a QR encoding failure
	// degrades the response instead of failing the charge.
	png, err := qrcode.Encode(tx.PayCode, qrcode.Medium, qrCodeSize)
	if err != nil {
		s.log.Warn().Err(err).Str("instrument_id", id.String()).Msg("QR code encoding failed")
		png = nil
	}

	return &ports.ChargeResult{
		InstrumentID:     id,
		PayCode:          tx.PayCode,
		QRCodePNG:        png,
		AmountMinorUnits: tx.AmountMinorUnits,
		ExpiresAt:        expiresAt,
		Source:           creds.Source,
	}, nil
}
