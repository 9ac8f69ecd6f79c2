package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"senstosales/internal/domain"
	"senstosales/internal/port"
)

// CreateReceiptInput is the DTO for recording a buyer's stores receipt voucher.
type CreateReceiptInput struct {
	OwnerID string `json:"-"`

	SRVNumber   string          `json:"srv_number"`
	SRVDate     string          `json:"srv_date"`
	PONumber    string          `json:"po_number"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Remarks     string          `json:"remarks"`
}

// ReceiptService records SRV receipts against purchase orders.
type ReceiptService interface {
	Create(ctx context.Context, input *CreateReceiptInput) (*domain.SRVReceipt, error)
	ListByPO(ctx context.Context, poNumber string) ([]domain.SRVReceipt, error)
}

type receiptService struct {
	store port.Store
	log   *zap.Logger
}

// NewReceiptService creates a new ReceiptService implementation.
func NewReceiptService(store port.Store, log *zap.Logger) ReceiptService {
	return &receiptService{store: store, log: log}
}

func (s *receiptService) Create(ctx context.Context, input *CreateReceiptInput) (*domain.SRVReceipt, error) {
	if err := validateReceiptInput(input); err != nil {
		return nil, err
	}

	rc := &domain.SRVReceipt{
		SRVNumber:   input.SRVNumber,
		SRVDate:     input.SRVDate,
		PONumber:    input.PONumber,
		ReceivedQty: input.ReceivedQty,
		AcceptedQty: input.AcceptedQty,
		RejectedQty: input.RejectedQty,
		Remarks:     input.Remarks,
		OwnerID:     input.OwnerID,
	}
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		if _, err := tx.PurchaseOrders().GetByNumber(ctx, rc.PONumber); err != nil {
			return notFoundAs(err, "purchase order %s not found", rc.PONumber)
		}
		if err := tx.Receipts().Create(ctx, rc); err != nil {
			return conflictAs(err, "receipt %s already exists", rc.SRVNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("receiptService.Create: receipt recorded",
		zap.String("srv_number", rc.SRVNumber), zap.String("po_number", rc.PONumber))
	return rc, nil
}

func (s *receiptService) ListByPO(ctx context.Context, poNumber string) ([]domain.SRVReceipt, error) {
	return s.store.Receipts().ListByPO(ctx, poNumber)
}

func validateReceiptInput(input *CreateReceiptInput) error {
	if input == nil {
		return domain.InvalidInput("request body is required")
	}
	input.SRVNumber = strings.TrimSpace(input.SRVNumber)
	input.PONumber = strings.TrimSpace(input.PONumber)

	if input.SRVNumber == "" {
		return domain.InvalidInput("srv_number is required")
	}
	if err := requireDate("srv_date", input.SRVDate); err != nil {
		return err
	}
	if input.PONumber == "" {
		return domain.InvalidInput("po_number is required")
	}
	if input.ReceivedQty.IsNegative() || input.AcceptedQty.IsNegative() || input.RejectedQty.IsNegative() {
		return domain.InvalidInput("quantities must not be negative")
	}
	if input.AcceptedQty.Add(input.RejectedQty).GreaterThan(input.ReceivedQty) {
		return domain.InvalidInput("accepted_qty plus rejected_qty exceeds received_qty")
	}
	return nil
}
