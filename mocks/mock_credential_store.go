package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore is a mock implementation of port.CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Resolve() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCredentialStore) Append(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

// MockCredentialBinder is a mock implementation of port.CredentialBinder.
type MockCredentialBinder struct {
	mock.Mock
}

func (m *MockCredentialBinder) Rebind(apiKey string) error {
	args := m.Called(apiKey)
	return args.Error(0)
}
