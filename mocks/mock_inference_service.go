package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labelscan/internal/port"
)

// MockInferenceService is a mock implementation of service.InferenceService.
type MockInferenceService struct {
	mock.Mock
}

func (m *MockInferenceService) AskText(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

func (m *MockInferenceService) AskVision(ctx context.Context, prompt string, img port.Image) (string, error) {
	args := m.Called(ctx, prompt, img)
	return args.String(0), args.Error(1)
}

func (m *MockInferenceService) Rebind(apiKey string) error {
	args := m.Called(apiKey)
	return args.Error(0)
}

func (m *MockInferenceService) ProviderName() string {
	args := m.Called()
	return args.String(0)
}
