package handler

import (
	"time"

	"pix-link-gateway/internal/adapter/http/dto"
	"pix-link-gateway/internal/adapter/http/middleware"
	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"
	"pix-link-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkHandler handles vendor payment link management.
type LinkHandler struct {
	linkSvc      ports.LinkService
	publicOrigin string
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(linkSvc ports.LinkService, publicOrigin string) *LinkHandler {
	return &LinkHandler{linkSvc: linkSvc, publicOrigin: publicOrigin}
}

// Create handles POST /api/v1/links.
func (h *LinkHandler) Create(c *gin.Context) {
	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("invalid amount"))
		return
	}

	vendorID := c.MustGet(middleware.CtxVendorID).(uuid.UUID)
	link, err := h.linkSvc.CreateLink(c.Request.Context(), ports.CreateLinkRequest{
		OwnerID:     &vendorID,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, h.toLinkResponse(link))
}

// List handles GET /api/v1/links.
func (h *LinkHandler) List(c *gin.Context) {
	vendorID := c.MustGet(middleware.CtxVendorID).(uuid.UUID)

	links, err := h.linkSvc.ListLinks(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LinkResponse, 0, len(links))
	for i := range links {
		items = append(items, h.toLinkResponse(&links[i]))
	}
	response.OK(c, items)
}

// Deactivate handles DELETE /api/v1/links/:code.
func (h *LinkHandler) Deactivate(c *gin.Context) {
	code := c.Param("code")
	vendorID := c.MustGet(middleware.CtxVendorID).(uuid.UUID)

	if err := h.linkSvc.DeactivateLink(c.Request.Context(), vendorID, code); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"code": code, "is_active": false})
}

func (h *LinkHandler) toLinkResponse(l *domain.PaymentLink) dto.LinkResponse {
	return dto.LinkResponse{
		ID:          l.ID.String(),
		Code:        l.Code,
		URL:         l.URL(h.publicOrigin),
		Amount:      l.Amount.StringFixed(2),
		Description: l.Description,
		IsActive:    l.IsActive,
		AccessCount: l.AccessCount,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
}
