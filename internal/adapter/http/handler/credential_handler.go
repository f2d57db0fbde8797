package handler

import (
	"strings"
	"time"

	"pix-link-gateway/internal/adapter/http/dto"
	"pix-link-gateway/internal/adapter/http/middleware"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"
	"pix-link-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CredentialHandler handles vendor gateway credential management.
type CredentialHandler struct {
	credSvc ports.CredentialService
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(credSvc ports.CredentialService) *CredentialHandler {
	return &CredentialHandler{credSvc: credSvc}
}

// Get handles GET /api/v1/credentials. The secret half is never echoed.
func (h *CredentialHandler) Get(c *gin.Context) {
	vendorID := c.MustGet(middleware.CtxVendorID).(uuid.UUID)

	cred, err := h.credSvc.GetCredentials(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if cred == nil {
		response.OK(c, dto.CredentialsResponse{Configured: false})
		return
	}

	response.OK(c, dto.CredentialsResponse{
		Configured: cred.IsComplete(),
		PublicKey:  cred.PublicKey,
		UpdatedAt:  cred.UpdatedAt.Format(time.RFC3339),
	})
}

// Put handles PUT /api/v1/credentials. Keys are trimmed but otherwise stored
// verbatim; HTML-escaping would corrupt them.
func (h *CredentialHandler) Put(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	vendorID := c.MustGet(middleware.CtxVendorID).(uuid.UUID)
	err := h.credSvc.SaveCredentials(c.Request.Context(), vendorID,
		strings.TrimSpace(req.PublicKey), strings.TrimSpace(req.SecretKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CredentialsResponse{Configured: true, PublicKey: strings.TrimSpace(req.PublicKey)})
}
