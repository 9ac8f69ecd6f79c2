package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"senstosales/internal/domain"
	"senstosales/internal/ledger"
	"senstosales/internal/port"
	"senstosales/internal/tax"
)

// LotInput is one delivery lot of an ingested PO line.
type LotInput struct {
	LotNo        int             `json:"lot_no"`
	OrderedQty   decimal.Decimal `json:"ordered_qty"`
	DeliveryDate string          `json:"delivery_date"`
}

// POLineInput is one ingested PO line.
type POLineInput struct {
	LineNo       int             `json:"line_no"`
	MaterialCode string          `json:"material_code"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	HSNCode      string          `json:"hsn_code"`
	OrderedQty   decimal.Decimal `json:"ordered_qty"`
	Rate         decimal.Decimal `json:"rate"`
	Lots         []LotInput      `json:"lots"`
}

// IngestPOInput is the DTO the PO ingestion collaborator submits after extraction.
type IngestPOInput struct {
	OwnerID string `json:"-"`

	PONumber     string        `json:"po_number"`
	PODate       string        `json:"po_date"`
	BuyerName    string        `json:"buyer_name"`
	BuyerGSTIN   string        `json:"buyer_gstin"`
	DepartmentNo string        `json:"department_no"`
	Lines        []POLineInput `json:"lines"`
}

// IngestResult reports what an ingestion did.
type IngestResult struct {
	PONumber  string          `json:"po_number"`
	Created   bool            `json:"created"`
	LineCount int             `json:"line_count"`
	POValue   decimal.Decimal `json:"po_value"`
}

// PurchaseOrderService manages purchase orders.
type PurchaseOrderService interface {
	Ingest(ctx context.Context, input *IngestPOInput) (*IngestResult, error)
	Get(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	List(ctx context.Context) ([]domain.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, poNumber string, status domain.POStatus) error
	Delete(ctx context.Context, poNumber string) error
}

type purchaseOrderService struct {
	store port.Store
	log   *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService implementation.
func NewPurchaseOrderService(store port.Store, log *zap.Logger) PurchaseOrderService {
	return &purchaseOrderService{store: store, log: log}
}

// Ingest creates the PO, or replaces its header and lines when it already
// exists and nothing has been dispatched against it yet.
func (s *purchaseOrderService) Ingest(ctx context.Context, input *IngestPOInput) (*IngestResult, error) {
	if err := validatePOInput(input); err != nil {
		return nil, err
	}

	po := &domain.PurchaseOrder{
		PONumber:     input.PONumber,
		PODate:       input.PODate,
		BuyerName:    input.BuyerName,
		BuyerGSTIN:   input.BuyerGSTIN,
		DepartmentNo: input.DepartmentNo,
		Status:       domain.POStatusOpen,
		OwnerID:      input.OwnerID,
	}
	lines := make([]domain.PurchaseOrderLine, 0, len(input.Lines))
	value := decimal.Zero
	for _, l := range input.Lines {
		line := domain.PurchaseOrderLine{
			LineNo:       l.LineNo,
			MaterialCode: l.MaterialCode,
			Description:  l.Description,
			Unit:         l.Unit,
			HSNCode:      strings.TrimSpace(l.HSNCode),
			OrderedQty:   l.OrderedQty.Round(ledger.QtyPlaces),
			Rate:         l.Rate,
		}
		for _, lot := range l.Lots {
			line.Lots = append(line.Lots, domain.DeliveryLot{
				LotNo:        lot.LotNo,
				OrderedQty:   lot.OrderedQty.Round(ledger.QtyPlaces),
				DeliveryDate: lot.DeliveryDate,
			})
		}
		value = value.Add(tax.LineAmount(line.OrderedQty, line.Rate))
		lines = append(lines, line)
	}
	po.POValue = value

	created := false
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		existing, err := tx.PurchaseOrders().GetByNumber(ctx, po.PONumber)
		switch {
		case err == nil:
			challans, _, err := tx.PurchaseOrders().CountDependents(ctx, po.PONumber)
			if err != nil {
				return err
			}
			if challans > 0 {
				return domain.Conflict("purchase order %s already has %d delivery challan(s) and cannot be re-ingested",
					po.PONumber, challans)
			}
			po.Status = existing.Status
			if err := tx.PurchaseOrders().UpdateHeader(ctx, po); err != nil {
				return err
			}
		case domain.KindOf(err) == domain.KindNotFound:
			if err := tx.PurchaseOrders().Create(ctx, po); err != nil {
				return conflictAs(err, "purchase order %s already exists", po.PONumber)
			}
			created = true
		default:
			return err
		}
		return tx.PurchaseOrders().ReplaceLines(ctx, po.PONumber, lines)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchaseOrderService.Ingest: purchase order stored",
		zap.String("po_number", po.PONumber),
		zap.Bool("created", created),
		zap.Int("lines", len(lines)))
	return &IngestResult{PONumber: po.PONumber, Created: created, LineCount: len(lines), POValue: value}, nil
}

// Get returns the PO with lines, lots and the ledger position of each.
func (s *purchaseOrderService) Get(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	po, err := s.store.PurchaseOrders().GetByNumber(ctx, poNumber)
	if err != nil {
		return nil, notFoundAs(err, "purchase order %s not found", poNumber)
	}
	lines, err := s.store.PurchaseOrders().ListLines(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	book := ledger.New(s.store.Ledger())
	for i := range lines {
		pos, err := book.Position(ctx, ledger.LineKey(lines[i].ID))
		if err != nil {
			return nil, err
		}
		lines[i].Position = &pos
	}
	po.Lines = lines
	return po, nil
}

func (s *purchaseOrderService) List(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return s.store.PurchaseOrders().List(ctx)
}

func (s *purchaseOrderService) UpdateStatus(ctx context.Context, poNumber string, status domain.POStatus) error {
	if !status.Valid() {
		return domain.InvalidInput("status must be one of open, closed, cancelled")
	}
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		if err := tx.PurchaseOrders().UpdateStatus(ctx, poNumber, status); err != nil {
			return notFoundAs(err, "purchase order %s not found", poNumber)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("purchaseOrderService.UpdateStatus: status changed",
		zap.String("po_number", poNumber), zap.String("status", string(status)))
	return nil
}

// Delete removes a PO that no DC or SRV receipt references.
func (s *purchaseOrderService) Delete(ctx context.Context, poNumber string) error {
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		if _, err := tx.PurchaseOrders().GetByNumber(ctx, poNumber); err != nil {
			return notFoundAs(err, "purchase order %s not found", poNumber)
		}
		challans, receipts, err := tx.PurchaseOrders().CountDependents(ctx, poNumber)
		if err != nil {
			return err
		}
		if challans > 0 || receipts > 0 {
			e := domain.Conflict("purchase order %s has %d delivery challan(s) and %d receipt(s) and cannot be deleted",
				poNumber, challans, receipts)
			e.Details = map[string]any{"delivery_challans": challans, "receipts": receipts}
			return e
		}
		return tx.PurchaseOrders().Delete(ctx, poNumber)
	})
	if err != nil {
		return err
	}
	s.log.Info("purchaseOrderService.Delete: purchase order deleted", zap.String("po_number", poNumber))
	return nil
}

func validatePOInput(input *IngestPOInput) error {
	if input == nil {
		return domain.InvalidInput("request body is required")
	}
	input.PONumber = strings.TrimSpace(input.PONumber)
	input.BuyerGSTIN = strings.ToUpper(strings.TrimSpace(input.BuyerGSTIN))

	if input.PONumber == "" {
		return domain.InvalidInput("po_number is required")
	}
	if err := optionalDate("po_date", input.PODate); err != nil {
		return err
	}
	if input.BuyerGSTIN != "" && !tax.ValidGSTIN(input.BuyerGSTIN) {
		return domain.InvalidInput("buyer_gstin %s is not a valid GSTIN", input.BuyerGSTIN)
	}
	if len(input.Lines) == 0 {
		return domain.InvalidInput("at least one line is required")
	}

	lineNos := make(map[int]bool, len(input.Lines))
	for _, l := range input.Lines {
		if l.LineNo <= 0 {
			return domain.InvalidInput("line_no must be positive")
		}
		if lineNos[l.LineNo] {
			return domain.InvalidInput("line %d appears more than once", l.LineNo)
		}
		lineNos[l.LineNo] = true
		if !l.OrderedQty.IsPositive() {
			return domain.InvalidInput("line %d: ordered_qty must be greater than zero", l.LineNo)
		}
		if l.Rate.IsNegative() {
			return domain.InvalidInput("line %d: rate must not be negative", l.LineNo)
		}

		lotNos := make(map[int]bool, len(l.Lots))
		lotTotal := decimal.Zero
		for _, lot := range l.Lots {
			if lot.LotNo <= 0 {
				return domain.InvalidInput("line %d: lot_no must be positive", l.LineNo)
			}
			if lotNos[lot.LotNo] {
				return domain.InvalidInput("line %d: lot %d appears more than once", l.LineNo, lot.LotNo)
			}
			lotNos[lot.LotNo] = true
			if !lot.OrderedQty.IsPositive() {
				return domain.InvalidInput("line %d lot %d: ordered_qty must be greater than zero", l.LineNo, lot.LotNo)
			}
			if err := optionalDate("delivery_date", lot.DeliveryDate); err != nil {
				return err
			}
			lotTotal = lotTotal.Add(lot.OrderedQty)
		}
		if lotTotal.GreaterThan(l.OrderedQty) {
			return domain.InvalidInput("line %d: lots total %s exceeds ordered_qty %s",
				l.LineNo, lotTotal.String(), l.OrderedQty.String())
		}
	}
	return nil
}
