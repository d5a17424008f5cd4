// Package app wires configuration into the services shared by the HTTP server
// and the labelctl CLI.
package app

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"labelscan/internal/config"
	"labelscan/internal/credential"
	"labelscan/internal/imageproc"
	"labelscan/internal/inference"
	"labelscan/internal/service"

	// Providers register themselves with the inference factory.
	_ "labelscan/internal/inference/claude"
	_ "labelscan/internal/inference/gemini"
)

// App holds the constructed services.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Inference   service.InferenceService
	Credentials service.CredentialService
	Batches     service.BatchService
}

// New resolves the current API key from fs, builds the configured provider
// bound to it, and assembles the services on top.
func New(cfg *config.Config, fs afero.Fs, logger *zap.Logger) (*App, error) {
	store := credential.NewStore(fs, &cfg.Credential, logger)
	apiKey := store.Resolve()
	if apiKey == "" {
		logger.Warn("app.New: no API key found; set one with PUT /api/v1/credentials or labelctl key rotate")
	}

	inferenceCfg := cfg.Inference
	inferenceCfg.APIKey = apiKey
	provider, err := inference.NewProvider(&inferenceCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing inference provider: %w", err)
	}

	inferenceSvc := service.NewInferenceService(provider, logger)
	credentialSvc := service.NewCredentialService(store, inferenceSvc, apiKey, logger)
	batchSvc := service.NewBatchService(inferenceSvc, imageproc.NewDecoder(&cfg.Image), cfg.Batch, logger)

	logger.Info("app.New: services ready",
		zap.String("provider", provider.Name()),
		zap.Strings("available_providers", inference.Providers()),
		zap.Int("batch_concurrency", cfg.Batch.Concurrency))

	return &App{
		Config:      cfg,
		Logger:      logger,
		Inference:   inferenceSvc,
		Credentials: credentialSvc,
		Batches:     batchSvc,
	}, nil
}
