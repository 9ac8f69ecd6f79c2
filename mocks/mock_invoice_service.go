package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, input *service.CreateInvoiceInput) (*service.InvoiceResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceResult), args.Error(1)
}

func (m *MockInvoiceService) Preview(ctx context.Context, input *service.CreateInvoiceInput) (*domain.GSTInvoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GSTInvoice), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, invoiceNumber string) (*domain.GSTInvoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GSTInvoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.GSTInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GSTInvoice), args.Error(1)
}

func (m *MockInvoiceService) PeekNextNumber(ctx context.Context) (*service.NextNumber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NextNumber), args.Error(1)
}
