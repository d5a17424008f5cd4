package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labelscan/internal/port"
)

// MockCompletionProvider is a mock implementation of port.CompletionProvider.
type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCompletionProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionProvider) GenerateFromImage(ctx context.Context, img port.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionProvider) GenerateFromPromptAndImage(ctx context.Context, prompt string, img port.Image) (string, error) {
	args := m.Called(ctx, prompt, img)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionProvider) Rebind(apiKey string) error {
	args := m.Called(apiKey)
	return args.Error(0)
}
