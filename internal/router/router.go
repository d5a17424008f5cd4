package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labelscan/internal/handler"
	"labelscan/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Inference  *handler.InferenceHandler
	Credential *handler.CredentialHandler
	Batch      *handler.BatchHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, logger *zap.Logger, allowedOrigins []string, maxMultipartMemory int64) *gin.Engine {
	r := gin.New()
	if maxMultipartMemory > 0 {
		r.MaxMultipartMemory = maxMultipartMemory
	}

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/ask", h.Inference.Ask)
	v1.GET("/prompt", h.Inference.Prompt)

	creds := v1.Group("/credentials")
	creds.GET("", h.Credential.Show)
	creds.PUT("", h.Credential.Rotate)

	v1.POST("/batches", h.Batch.Create)

	return r
}
