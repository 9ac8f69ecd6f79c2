package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedgerRepo is a mock implementation of port.LedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Ordered(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error) {
	args := m.Called(ctx, lineID, lotNo)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepo) Dispatched(ctx context.Context, lineID string, lotNo *int, excludingDC string) (decimal.Decimal, error) {
	args := m.Called(ctx, lineID, lotNo, excludingDC)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepo) Invoiced(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error) {
	args := m.Called(ctx, lineID, lotNo)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
