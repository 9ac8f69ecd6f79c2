package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/service"
)

// MockChallanService is a mock implementation of service.ChallanService.
type MockChallanService struct {
	mock.Mock
}

func (m *MockChallanService) Create(ctx context.Context, input *service.CreateChallanInput) (*service.ChallanResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChallanResult), args.Error(1)
}

func (m *MockChallanService) Update(ctx context.Context, dcNumber string, input *service.CreateChallanInput) (*service.ChallanResult, error) {
	args := m.Called(ctx, dcNumber, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChallanResult), args.Error(1)
}

func (m *MockChallanService) Preview(ctx context.Context, input *service.CreateChallanInput) (*service.ChallanPreview, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChallanPreview), args.Error(1)
}

func (m *MockChallanService) Get(ctx context.Context, dcNumber string) (*service.ChallanDetail, error) {
	args := m.Called(ctx, dcNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChallanDetail), args.Error(1)
}

func (m *MockChallanService) List(ctx context.Context, filter port.ChallanFilter) ([]domain.ChallanSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChallanSummary), args.Error(1)
}

func (m *MockChallanService) InvoiceFor(ctx context.Context, dcNumber string) (string, error) {
	args := m.Called(ctx, dcNumber)
	return args.String(0), args.Error(1)
}

func (m *MockChallanService) Delete(ctx context.Context, dcNumber string) error {
	args := m.Called(ctx, dcNumber)
	return args.Error(0)
}
