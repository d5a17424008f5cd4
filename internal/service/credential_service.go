package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"labelscan/internal/domain"
	"labelscan/internal/port"
)

// CredentialService rotates the API key used by the inference client.
type CredentialService interface {
	Rotate(ctx context.Context, secret string) (string, error)
	// Current returns the bound key masked for display.
	Current() string
	HasCredential() bool
}

type credentialService struct {
	store  port.CredentialStore
	binder port.CredentialBinder
	logger *zap.Logger

	mu      sync.RWMutex
	current string
}

// NewCredentialService creates a CredentialService. current is the key the
// binder was constructed with.
func NewCredentialService(
	store port.CredentialStore,
	binder port.CredentialBinder,
	current string,
	logger *zap.Logger,
) CredentialService {
	return &credentialService{
		store:   store,
		binder:  binder,
		logger:  logger,
		current: current,
	}
}

func (s *credentialService) Rotate(_ context.Context, secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", domain.ErrEmptyCredential
	}

	path, err := s.store.Append(secret)
	if err != nil {
		s.logger.Warn("credentialService.Rotate: storing key failed", zap.Error(err))
		return "", err
	}

	if err := s.binder.Rebind(secret); err != nil {
		s.logger.Error("credentialService.Rotate: key stored but rebind failed",
			zap.String("file", path), zap.Error(err))
		return "", fmt.Errorf("rebinding inference client: %w", err)
	}

	s.mu.Lock()
	s.current = secret
	s.mu.Unlock()

	s.logger.Info("credentialService.Rotate: key rotated", zap.String("file", path))
	return secret, nil
}

func (s *credentialService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Mask(s.current)
}

func (s *credentialService) HasCredential() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != ""
}

// Mask hides all but the first and last three characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:3] + "…" + secret[len(secret)-3:]
}
