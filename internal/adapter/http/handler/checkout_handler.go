package handler

import (
	"encoding/base64"
	"time"

	"pix-link-gateway/internal/adapter/http/dto"
	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"
	"pix-link-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles the public payer-facing surface.
type CheckoutHandler struct {
	linkSvc     ports.LinkService
	checkoutSvc ports.CheckoutService
	tracker     ports.InstrumentTracker
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(linkSvc ports.LinkService, checkoutSvc ports.CheckoutService, tracker ports.InstrumentTracker) *CheckoutHandler {
	return &CheckoutHandler{linkSvc: linkSvc, checkoutSvc: checkoutSvc, tracker: tracker}
}

// Preview handles GET /pagar/:code. Display only: the access counter moves
// when a charge is generated, not here.
func (h *CheckoutHandler) Preview(c *gin.Context) {
	link, err := h.linkSvc.GetLink(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LinkPreviewResponse{
		Code:        link.Code,
		Amount:      link.Amount.StringFixed(2),
		Description: link.Description,
	})
}

// CreateChargeForLink handles POST /pagar/:code/pix.
func (h *CheckoutHandler) CreateChargeForLink(c *gin.Context) {
	var req dto.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	code := c.Param("code")
	result, err := h.checkoutSvc.CreateCharge(c.Request.Context(), ports.ChargeRequest{
		LinkCode: &code,
		Customer: toCustomer(req),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toChargeResponse(result))
}

// CreateCharge handles POST /api/v1/pix, the platform-routed charge with an
// explicit amount.
func (h *CheckoutHandler) CreateCharge(c *gin.Context) {
	var req dto.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if req.Amount == nil {
		response.Error(c, apperror.Validation("amount is required"))
		return
	}
	amount, err := decimal.NewFromString(*req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("invalid amount"))
		return
	}

	result, err := h.checkoutSvc.CreateCharge(c.Request.Context(), ports.ChargeRequest{
		Amount:   amount,
		Customer: toCustomer(req),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toChargeResponse(result))
}

// Status handles GET /api/v1/pix/:id, the countdown poll.
func (h *CheckoutHandler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid instrument id"))
		return
	}

	status, ok := h.tracker.Status(id)
	if !ok {
		response.Error(c, apperror.ErrInstrumentNotFound())
		return
	}

	resp := dto.InstrumentStatusResponse{
		State:     string(status.State),
		Remaining: int64(status.Remaining.Seconds()),
	}
	if !status.ExpiresAt.IsZero() {
		resp.ExpiresAt = status.ExpiresAt.Format(time.RFC3339)
	}
	response.OK(c, resp)
}

func toCustomer(req dto.CreateChargeRequest) domain.Customer {
	return domain.Customer{
		Name:     req.CustomerName,
		Email:    req.CustomerEmail,
		Document: req.CustomerCpf,
	}
}

func toChargeResponse(r *ports.ChargeResult) dto.ChargeResponse {
	resp := dto.ChargeResponse{
		InstrumentID:     r.InstrumentID.String(),
		PayCode:          r.PayCode,
		AmountMinorUnits: r.AmountMinorUnits,
		ExpiresAt:        r.ExpiresAt.Format(time.RFC3339),
		ExpiresIn:        int64(time.Until(r.ExpiresAt).Seconds()),
	}
	if len(r.QRCodePNG) > 0 {
		resp.QRCodePNG = base64.StdEncoding.EncodeToString(r.QRCodePNG)
	}
	return resp
}
