package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"glrfill/internal/domain"
	"glrfill/internal/service"
)

// MockFillService is a mock implementation of service.FillService.
type MockFillService struct {
	mock.Mock
}

func (m *MockFillService) Run(ctx context.Context, input service.FillInput) (*domain.FillResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FillResult), args.Error(1)
}
