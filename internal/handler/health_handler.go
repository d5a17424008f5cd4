package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labelscan/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	inference   service.InferenceService
	credentials service.CredentialService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(inferenceSvc service.InferenceService, credentialSvc service.CredentialService) *HealthHandler {
	return &HealthHandler{inference: inferenceSvc, credentials: credentialSvc}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	provider := h.inference.ProviderName()
	if !h.credentials.HasCredential() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"provider": provider,
			"error":    "no API credential configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": provider})
}
