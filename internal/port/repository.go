package port

import (
	"context"

	"github.com/shopspring/decimal"

	"senstosales/internal/domain"
)

// PurchaseOrderRepository defines the contract for PO, PO line and lot persistence.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *domain.PurchaseOrder) error
	UpdateHeader(ctx context.Context, po *domain.PurchaseOrder) error
	GetByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	List(ctx context.Context) ([]domain.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, poNumber string, status domain.POStatus) error
	Delete(ctx context.Context, poNumber string) error

	// ReplaceLines deletes every line and lot of the PO and inserts lines with their lots.
	ReplaceLines(ctx context.Context, poNumber string, lines []domain.PurchaseOrderLine) error
	ListLines(ctx context.Context, poNumber string) ([]domain.PurchaseOrderLine, error)
	GetLine(ctx context.Context, lineID string) (*domain.PurchaseOrderLine, error)
	CountLots(ctx context.Context, lineID string) (int, error)
	GetLot(ctx context.Context, lineID string, lotNo int) (*domain.DeliveryLot, error)

	// CountDependents reports how many DCs and SRV receipts reference the PO.
	CountDependents(ctx context.Context, poNumber string) (challans, receipts int, err error)
}

// ChallanFilter narrows a DC listing.
type ChallanFilter struct {
	PONumber    string
	PendingOnly bool
}

// ChallanRepository defines the contract for delivery challan persistence.
type ChallanRepository interface {
	Create(ctx context.Context, dc *domain.DeliveryChallan) error
	UpdateHeader(ctx context.Context, dc *domain.DeliveryChallan) error
	ReplaceLines(ctx context.Context, dcNumber string, lines []domain.DeliveryChallanLine) error
	GetByNumber(ctx context.Context, dcNumber string) (*domain.DeliveryChallan, error)
	Exists(ctx context.Context, dcNumber string) (bool, error)
	List(ctx context.Context, filter ChallanFilter) ([]domain.ChallanSummary, error)
	Delete(ctx context.Context, dcNumber string) error
	InvoiceSourceLines(ctx context.Context, dcNumber string) ([]domain.InvoiceSourceLine, error)
	LastNumber(ctx context.Context, prefix string) (string, error)
}

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	PONumber string
	DCNumber string
}

// InvoiceRepository defines the contract for GST invoice persistence.
type InvoiceRepository interface {
	// Create inserts header, lines and the DC link.
	Create(ctx context.Context, inv *domain.GSTInvoice) error
	Exists(ctx context.Context, invoiceNumber string) (bool, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*domain.GSTInvoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.GSTInvoice, error)
	// LinkedInvoice returns the invoice number linked to dcNumber, or "".
	LinkedInvoice(ctx context.Context, dcNumber string) (string, error)
	LastNumber(ctx context.Context, prefix string) (string, error)
}

// ReceiptRepository defines the contract for SRV receipt persistence.
type ReceiptRepository interface {
	Create(ctx context.Context, r *domain.SRVReceipt) error
	ListByPO(ctx context.Context, poNumber string) ([]domain.SRVReceipt, error)
}

// LedgerRepository answers quantity questions about a PO line or lot.
// lotNo nil means the whole line.
type LedgerRepository interface {
	// Ordered returns domain.ErrNotFound when the line or lot does not exist.
	Ordered(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error)
	Dispatched(ctx context.Context, lineID string, lotNo *int, excludingDC string) (decimal.Decimal, error)
	Invoiced(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	PurchaseOrders() PurchaseOrderRepository
	Challans() ChallanRepository
	Invoices() InvoiceRepository
	Receipts() ReceiptRepository
	Ledger() LedgerRepository
}

// Store is the storage engine. Reads outside a transaction go through the
// embedded Repositories; every write runs in WithinExclusiveTx.
type Store interface {
	Repositories

	// WithinExclusiveTx runs fn in a transaction that holds the engine's write
	// lock from BEGIN. fn's error, a panic, or ctx cancellation rolls back.
	WithinExclusiveTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
}
