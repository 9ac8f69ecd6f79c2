package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"senstosales/internal/port"
)

// MockStore is a mock implementation of port.Store. WithinExclusiveTx runs fn
// against the same repository mocks and counts the transactions opened.
type MockStore struct {
	mock.Mock

	PORepo      *MockPurchaseOrderRepo
	ChallanRepo *MockChallanRepo
	InvoiceRepo *MockInvoiceRepo
	ReceiptRepo *MockReceiptRepo
	LedgerRepo  *MockLedgerRepo

	TxCount int
}

// NewMockStore returns a store wired to fresh repository mocks.
func NewMockStore() *MockStore {
	return &MockStore{
		PORepo:      new(MockPurchaseOrderRepo),
		ChallanRepo: new(MockChallanRepo),
		InvoiceRepo: new(MockInvoiceRepo),
		ReceiptRepo: new(MockReceiptRepo),
		LedgerRepo:  new(MockLedgerRepo),
	}
}

func (m *MockStore) PurchaseOrders() port.PurchaseOrderRepository { return m.PORepo }
func (m *MockStore) Challans() port.ChallanRepository             { return m.ChallanRepo }
func (m *MockStore) Invoices() port.InvoiceRepository             { return m.InvoiceRepo }
func (m *MockStore) Receipts() port.ReceiptRepository             { return m.ReceiptRepo }
func (m *MockStore) Ledger() port.LedgerRepository                { return m.LedgerRepo }

func (m *MockStore) WithinExclusiveTx(ctx context.Context, fn func(tx port.Repositories) error) error {
	m.TxCount++
	return fn(m)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
