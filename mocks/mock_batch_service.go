package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labelscan/internal/domain"
	"labelscan/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Process(ctx context.Context, input service.BatchInput) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}
