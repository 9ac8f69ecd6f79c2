package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/service"
)

// MockReceiptService is a mock implementation of service.ReceiptService.
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Create(ctx context.Context, input *service.CreateReceiptInput) (*domain.SRVReceipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SRVReceipt), args.Error(1)
}

func (m *MockReceiptService) ListByPO(ctx context.Context, poNumber string) ([]domain.SRVReceipt, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SRVReceipt), args.Error(1)
}
