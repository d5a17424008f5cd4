package mocks

import (
	"github.com/stretchr/testify/mock"

	"labelscan/internal/port"
)

// MockImageDecoder is a mock implementation of port.ImageDecoder.
type MockImageDecoder struct {
	mock.Mock
}

func (m *MockImageDecoder) Decode(filename string, data []byte) (*port.Image, error) {
	args := m.Called(filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Image), args.Error(1)
}
