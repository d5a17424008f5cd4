package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCredentialService is a mock implementation of service.CredentialService.
type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) Rotate(ctx context.Context, secret string) (string, error) {
	args := m.Called(ctx, secret)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialService) Current() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCredentialService) HasCredential() bool {
	args := m.Called()
	return args.Bool(0)
}
