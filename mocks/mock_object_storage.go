package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/port"
)

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UploadOutput), args.Error(1)
}

// MockInvoiceArchive is a mock implementation of port.InvoiceArchive.
type MockInvoiceArchive struct {
	mock.Mock
}

func (m *MockInvoiceArchive) Archive(ctx context.Context, inv *domain.GSTInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
