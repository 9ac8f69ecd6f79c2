package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
)

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RemainingQuantity(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error) {
	args := m.Called(ctx, lineID, lotNo)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) Position(ctx context.Context, lineID string, lotNo *int) (*domain.Position, error) {
	args := m.Called(ctx, lineID, lotNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Position), args.Error(1)
}
