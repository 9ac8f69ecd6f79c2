package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/service"
)

// MockPurchaseOrderService is a mock implementation of service.PurchaseOrderService.
type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) Ingest(ctx context.Context, input *service.IngestPOInput) (*service.IngestResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockPurchaseOrderService) Get(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) List(ctx context.Context) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) UpdateStatus(ctx context.Context, poNumber string, status domain.POStatus) error {
	args := m.Called(ctx, poNumber, status)
	return args.Error(0)
}

func (m *MockPurchaseOrderService) Delete(ctx context.Context, poNumber string) error {
	args := m.Called(ctx, poNumber)
	return args.Error(0)
}
