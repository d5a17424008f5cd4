package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"labelscan/internal/port"
)

// InferenceService is the question and vision entry point to the model provider.
type InferenceService interface {
	AskText(ctx context.Context, question string) (string, error)
	// AskVision sends img with prompt, or img alone when prompt is blank.
	AskVision(ctx context.Context, prompt string, img port.Image) (string, error)
	Rebind(apiKey string) error
	ProviderName() string
}

type inferenceService struct {
	provider port.CompletionProvider
	logger   *zap.Logger
}

// NewInferenceService creates a new InferenceService implementation.
func NewInferenceService(provider port.CompletionProvider, logger *zap.Logger) InferenceService {
	return &inferenceService{
		provider: provider,
		logger:   logger,
	}
}

func (s *inferenceService) AskText(ctx context.Context, question string) (string, error) {
	start := time.Now()
	text, err := s.provider.GenerateText(ctx, question)
	if err != nil {
		s.logger.Warn("inferenceService.AskText: provider call failed",
			zap.String("provider", s.provider.Name()), zap.Error(err))
		return "", err
	}
	s.logger.Debug("inferenceService.AskText: answered",
		zap.Duration("latency", time.Since(start)), zap.Int("chars", len(text)))
	return text, nil
}

func (s *inferenceService) AskVision(ctx context.Context, prompt string, img port.Image) (string, error) {
	start := time.Now()

	var (
		text string
		err  error
	)
	if strings.TrimSpace(prompt) != "" {
		text, err = s.provider.GenerateFromPromptAndImage(ctx, prompt, img)
	} else {
		text, err = s.provider.GenerateFromImage(ctx, img)
	}
	if err != nil {
		return "", err
	}

	s.logger.Debug("inferenceService.AskVision: answered",
		zap.String("mime_type", img.MIMEType),
		zap.Int("bytes", len(img.Data)),
		zap.Duration("latency", time.Since(start)))
	return text, nil
}

func (s *inferenceService) Rebind(apiKey string) error {
	if err := s.provider.Rebind(apiKey); err != nil {
		return err
	}
	s.logger.Info("inferenceService.Rebind: provider credential replaced",
		zap.String("provider", s.provider.Name()))
	return nil
}

func (s *inferenceService) ProviderName() string {
	return s.provider.Name()
}
