package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labelscan/internal/service"
)

// CredentialHandler handles API key rotation.
type CredentialHandler struct {
	credentials service.CredentialService
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(credentialSvc service.CredentialService) *CredentialHandler {
	return &CredentialHandler{credentials: credentialSvc}
}

// RotateRequest is the body of PUT /api/v1/credentials.
type RotateRequest struct {
	APIKey string `json:"api_key"`
}

// CredentialStatus describes the bound key without revealing it.
type CredentialStatus struct {
	Configured bool   `json:"configured"`
	APIKey     string `json:"api_key"`
}

// Rotate handles PUT /api/v1/credentials
func (h *CredentialHandler) Rotate(c *gin.Context) {
	var req RotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if _, err := h.credentials.Rotate(c.Request.Context(), req.APIKey); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, h.status())
}

// Show handles GET /api/v1/credentials
func (h *CredentialHandler) Show(c *gin.Context) {
	RespondOK(c, h.status())
}

func (h *CredentialHandler) status() CredentialStatus {
	return CredentialStatus{
		Configured: h.credentials.HasCredential(),
		APIKey:     h.credentials.Current(),
	}
}
