package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/port"
)

// MockChallanRepo is a mock implementation of port.ChallanRepository.
type MockChallanRepo struct {
	mock.Mock
}

func (m *MockChallanRepo) Create(ctx context.Context, dc *domain.DeliveryChallan) error {
	args := m.Called(ctx, dc)
	return args.Error(0)
}

func (m *MockChallanRepo) UpdateHeader(ctx context.Context, dc *domain.DeliveryChallan) error {
	args := m.Called(ctx, dc)
	return args.Error(0)
}

func (m *MockChallanRepo) ReplaceLines(ctx context.Context, dcNumber string, lines []domain.DeliveryChallanLine) error {
	args := m.Called(ctx, dcNumber, lines)
	return args.Error(0)
}

func (m *MockChallanRepo) GetByNumber(ctx context.Context, dcNumber string) (*domain.DeliveryChallan, error) {
	args := m.Called(ctx, dcNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryChallan), args.Error(1)
}

func (m *MockChallanRepo) Exists(ctx context.Context, dcNumber string) (bool, error) {
	args := m.Called(ctx, dcNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockChallanRepo) List(ctx context.Context, filter port.ChallanFilter) ([]domain.ChallanSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChallanSummary), args.Error(1)
}

func (m *MockChallanRepo) Delete(ctx context.Context, dcNumber string) error {
	args := m.Called(ctx, dcNumber)
	return args.Error(0)
}

func (m *MockChallanRepo) InvoiceSourceLines(ctx context.Context, dcNumber string) ([]domain.InvoiceSourceLine, error) {
	args := m.Called(ctx, dcNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceSourceLine), args.Error(1)
}

func (m *MockChallanRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}
