package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
)

// MockPurchaseOrderRepo is a mock implementation of port.PurchaseOrderRepository.
type MockPurchaseOrderRepo struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepo) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepo) UpdateHeader(ctx context.Context, po *domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepo) GetByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepo) List(ctx context.Context) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepo) UpdateStatus(ctx context.Context, poNumber string, status domain.POStatus) error {
	args := m.Called(ctx, poNumber, status)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepo) Delete(ctx context.Context, poNumber string) error {
	args := m.Called(ctx, poNumber)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepo) ReplaceLines(ctx context.Context, poNumber string, lines []domain.PurchaseOrderLine) error {
	args := m.Called(ctx, poNumber, lines)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepo) ListLines(ctx context.Context, poNumber string) ([]domain.PurchaseOrderLine, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderLine), args.Error(1)
}

func (m *MockPurchaseOrderRepo) GetLine(ctx context.Context, lineID string) (*domain.PurchaseOrderLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrderLine), args.Error(1)
}

func (m *MockPurchaseOrderRepo) CountLots(ctx context.Context, lineID string) (int, error) {
	args := m.Called(ctx, lineID)
	return args.Int(0), args.Error(1)
}

func (m *MockPurchaseOrderRepo) GetLot(ctx context.Context, lineID string, lotNo int) (*domain.DeliveryLot, error) {
	args := m.Called(ctx, lineID, lotNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryLot), args.Error(1)
}

func (m *MockPurchaseOrderRepo) CountDependents(ctx context.Context, poNumber string) (challans, receipts int, err error) {
	args := m.Called(ctx, poNumber)
	return args.Int(0), args.Int(1), args.Error(2)
}
