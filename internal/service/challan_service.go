package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"senstosales/internal/domain"
	"senstosales/internal/ledger"
	"senstosales/internal/port"
	"senstosales/internal/sequence"
	"senstosales/internal/tax"
)

// ChallanLineInput is one requested dispatch against a PO line, and lot when
// the line is scheduled in lots.
type ChallanLineInput struct {
	POLineID    string           `json:"po_line_id"`
	LotNo       *int             `json:"lot_no,omitempty"`
	DispatchQty decimal.Decimal  `json:"dispatch_qty"`
	HSNCode     string           `json:"hsn_code,omitempty"`
	HSNRate     *decimal.Decimal `json:"hsn_rate,omitempty"`
}

// CreateChallanInput is the DTO for creating or replacing a delivery challan.
type CreateChallanInput struct {
	OwnerID string `json:"-"`
	// AutoNumber issues DC/FY/NNN when DCNumber is empty.
	AutoNumber bool `json:"-"`

	DCNumber          string             `json:"dc_number"`
	DCDate            string             `json:"dc_date"`
	PONumber          string             `json:"po_number"`
	DepartmentNo      string             `json:"department_no"`
	ConsigneeName     string             `json:"consignee_name"`
	ConsigneeGSTIN    string             `json:"consignee_gstin"`
	ConsigneeAddress  string             `json:"consignee_address"`
	InspectionCompany string             `json:"inspection_company"`
	EwayBillNo        string             `json:"eway_bill_no"`
	VehicleNo         string             `json:"vehicle_no"`
	LRNo              string             `json:"lr_no"`
	Transporter       string             `json:"transporter"`
	ModeOfTransport   string             `json:"mode_of_transport"`
	Remarks           string             `json:"remarks"`
	Lines             []ChallanLineInput `json:"lines"`
}

// ChallanResult is returned by the DC writers.
type ChallanResult struct {
	DCNumber  string `json:"dc_number"`
	LineCount int    `json:"line_count"`
}

// LineCheck is the quantity position of one requested line at validation time.
type LineCheck struct {
	POLineID  string          `json:"po_line_id"`
	LotNo     *int            `json:"lot_no,omitempty"`
	Requested decimal.Decimal `json:"requested"`
	Remaining decimal.Decimal `json:"remaining"`
	After     decimal.Decimal `json:"remaining_after"`
}

// ChallanPreview is the read-only outcome of validating a DC without writing it.
type ChallanPreview struct {
	DCNumber string      `json:"dc_number"`
	PONumber string      `json:"po_number"`
	Lines    []LineCheck `json:"lines"`
}

// ChallanLineDetail is a DC line with its PO line context.
type ChallanLineDetail struct {
	domain.DeliveryChallanLine
	LineNo      int             `json:"line_no"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Value       decimal.Decimal `json:"value"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// ChallanDetail is a DC header with enriched lines.
type ChallanDetail struct {
	*domain.DeliveryChallan
	Lines []ChallanLineDetail `json:"lines"`
}

// ChallanService validates and persists delivery challans.
type ChallanService interface {
	Create(ctx context.Context, input *CreateChallanInput) (*ChallanResult, error)
	Update(ctx context.Context, dcNumber string, input *CreateChallanInput) (*ChallanResult, error)
	Preview(ctx context.Context, input *CreateChallanInput) (*ChallanPreview, error)
	Get(ctx context.Context, dcNumber string) (*ChallanDetail, error)
	List(ctx context.Context, filter port.ChallanFilter) ([]domain.ChallanSummary, error)
	InvoiceFor(ctx context.Context, dcNumber string) (string, error)
	Delete(ctx context.Context, dcNumber string) error
}

type challanService struct {
	store     port.Store
	dcNumbers *sequence.Generator
	log       *zap.Logger
}

// NewChallanService creates a new ChallanService implementation.
func NewChallanService(store port.Store, dcNumbers *sequence.Generator, log *zap.Logger) ChallanService {
	return &challanService{store: store, dcNumbers: dcNumbers, log: log}
}

type challanMode int

var maxHSNRate = decimal.NewFromInt(100)

const (
	modeCreate challanMode = iota
	modeUpdate
)

func (s *challanService) Create(ctx context.Context, input *CreateChallanInput) (*ChallanResult, error) {
	if err := validateChallanInput(input, modeCreate); err != nil {
		return nil, err
	}
	if err := checkSuppliedNumber(s.dcNumbers, "dc_number", input.DCNumber); err != nil {
		return nil, err
	}

	var dc *domain.DeliveryChallan
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		number := strings.TrimSpace(input.DCNumber)
		if number == "" {
			var err error
			if number, err = s.dcNumbers.Next(ctx, tx.Challans()); err != nil {
				return err
			}
		}

		exists, err := tx.Challans().Exists(ctx, number)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("delivery challan %s already exists", number)
		}

		lines, _, err := s.checkLines(ctx, tx, input, "")
		if err != nil {
			return err
		}

		dc = buildChallan(number, input, lines)
		if err := tx.Challans().Create(ctx, dc); err != nil {
			return conflictAs(err, "delivery challan %s already exists", number)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("challanService.Create: delivery challan created",
		zap.String("dc_number", dc.DCNumber),
		zap.String("po_number", dc.PONumber),
		zap.Int("lines", len(dc.Lines)))
	return &ChallanResult{DCNumber: dc.DCNumber, LineCount: len(dc.Lines)}, nil
}

func (s *challanService) Update(ctx context.Context, dcNumber string, input *CreateChallanInput) (*ChallanResult, error) {
	dcNumber = strings.TrimSpace(dcNumber)
	if dcNumber == "" {
		return nil, domain.InvalidInput("dc_number is required")
	}
	if input == nil {
		return nil, domain.InvalidInput("request body is required")
	}
	if body := strings.TrimSpace(input.DCNumber); body != "" && body != dcNumber {
		return nil, domain.InvalidInput("dc_number %s in body does not match %s", body, dcNumber)
	}
	input.DCNumber = dcNumber
	if err := validateChallanInput(input, modeUpdate); err != nil {
		return nil, err
	}

	var dc *domain.DeliveryChallan
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		existing, err := tx.Challans().GetByNumber(ctx, dcNumber)
		if err != nil {
			return notFoundAs(err, "delivery challan %s not found", dcNumber)
		}

		lines, _, err := s.checkLines(ctx, tx, input, dcNumber)
		if err != nil {
			return err
		}
		if existing.InvoiceNumber != "" {
			return domain.Forbidden("delivery challan %s is linked to invoice %s and cannot be modified",
				dcNumber, existing.InvoiceNumber)
		}

		dc = buildChallan(dcNumber, input, lines)
		dc.OwnerID = existing.OwnerID
		if err := tx.Challans().UpdateHeader(ctx, dc); err != nil {
			return notFoundAs(err, "delivery challan %s not found", dcNumber)
		}
		return tx.Challans().ReplaceLines(ctx, dcNumber, dc.Lines)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("challanService.Update: delivery challan replaced",
		zap.String("dc_number", dcNumber),
		zap.Int("lines", len(dc.Lines)))
	return &ChallanResult{DCNumber: dcNumber, LineCount: len(dc.Lines)}, nil
}

// Preview runs the create checks against committed data without writing.
// A nil error means Create would succeed unless another writer commits first.
func (s *challanService) Preview(ctx context.Context, input *CreateChallanInput) (*ChallanPreview, error) {
	if err := validateChallanInput(input, modeCreate); err != nil {
		return nil, err
	}
	if err := checkSuppliedNumber(s.dcNumbers, "dc_number", input.DCNumber); err != nil {
		return nil, err
	}

	number := strings.TrimSpace(input.DCNumber)
	if number == "" {
		var err error
		if number, err = s.dcNumbers.Next(ctx, s.store.Challans()); err != nil {
			return nil, err
		}
	} else {
		exists, err := s.store.Challans().Exists(ctx, number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.Conflict("delivery challan %s already exists", number)
		}
	}

	_, checks, err := s.checkLines(ctx, s.store, input, "")
	if err != nil {
		return nil, err
	}
	return &ChallanPreview{DCNumber: number, PONumber: input.PONumber, Lines: checks}, nil
}

// checkLines resolves every requested line against repos and enforces the
// quantity ledger. Quantities requested twice for the same line or lot in one
// challan are summed before comparison.
func (s *challanService) checkLines(ctx context.Context, repos port.Repositories, input *CreateChallanInput, excludingDC string) ([]domain.DeliveryChallanLine, []LineCheck, error) {
	if _, err := repos.PurchaseOrders().GetByNumber(ctx, input.PONumber); err != nil {
		return nil, nil, notFoundAs(err, "purchase order %s not found", input.PONumber)
	}

	type resolved struct {
		line *domain.PurchaseOrderLine
		in   ChallanLineInput
	}
	items := make([]resolved, 0, len(input.Lines))
	for i, in := range input.Lines {
		line, err := repos.PurchaseOrders().GetLine(ctx, in.POLineID)
		if err != nil {
			return nil, nil, notFoundAs(err, "PO line %s not found", in.POLineID)
		}
		if line.PONumber != input.PONumber {
			return nil, nil, domain.InvalidInput("line %d: PO line %s does not belong to purchase order %s",
				i+1, in.POLineID, input.PONumber)
		}
		if in.LotNo != nil {
			if _, err := repos.PurchaseOrders().GetLot(ctx, in.POLineID, *in.LotNo); err != nil {
				return nil, nil, notFoundAs(err, "PO line %s lot %d not found", in.POLineID, *in.LotNo)
			}
		} else {
			lots, err := repos.PurchaseOrders().CountLots(ctx, in.POLineID)
			if err != nil {
				return nil, nil, err
			}
			if lots > 0 {
				return nil, nil, domain.InvalidInput("line %d: PO line %s is scheduled in lots; lot_no is required",
					i+1, in.POLineID)
			}
		}
		items = append(items, resolved{line: line, in: in})
	}

	book := ledger.New(repos.Ledger())
	tally := ledger.Tally{}
	lines := make([]domain.DeliveryChallanLine, 0, len(items))
	checks := make([]LineCheck, 0, len(items))
	for _, it := range items {
		qty := it.in.DispatchQty.Round(ledger.QtyPlaces)
		keys := []ledger.Key{ledger.LineKey(it.in.POLineID)}
		if it.in.LotNo != nil {
			keys = []ledger.Key{ledger.LotKey(it.in.POLineID, *it.in.LotNo), keys[0]}
		}

		var first LineCheck
		for j, k := range keys {
			remaining, err := book.Remaining(ctx, k, excludingDC)
			if err != nil {
				return nil, nil, notFoundAs(err, "%s not found", k)
			}
			cumulative := tally.Add(k, qty)
			if err := ledger.Check(k, cumulative, remaining); err != nil {
				return nil, nil, err
			}
			if j == 0 {
				first = LineCheck{
					POLineID:  it.in.POLineID,
					LotNo:     it.in.LotNo,
					Requested: qty,
					Remaining: remaining,
					After:     remaining.Sub(cumulative),
				}
			}
		}
		checks = append(checks, first)

		hsnCode := strings.TrimSpace(it.in.HSNCode)
		if hsnCode == "" {
			hsnCode = it.line.HSNCode
		}
		var rate decimal.NullDecimal
		if it.in.HSNRate != nil {
			rate = decimal.NewNullDecimal(*it.in.HSNRate)
		}
		lines = append(lines, domain.DeliveryChallanLine{
			POLineID:    it.in.POLineID,
			LotNo:       it.in.LotNo,
			DispatchQty: qty,
			HSNCode:     hsnCode,
			HSNRate:     rate,
		})
	}
	return lines, checks, nil
}

func (s *challanService) Get(ctx context.Context, dcNumber string) (*ChallanDetail, error) {
	dc, err := s.store.Challans().GetByNumber(ctx, dcNumber)
	if err != nil {
		return nil, notFoundAs(err, "delivery challan %s not found", dcNumber)
	}

	book := ledger.New(s.store.Ledger())
	detail := &ChallanDetail{DeliveryChallan: dc, Lines: make([]ChallanLineDetail, 0, len(dc.Lines))}
	for _, l := range dc.Lines {
		line, err := s.store.PurchaseOrders().GetLine(ctx, l.POLineID)
		if err != nil {
			return nil, err
		}
		remaining, err := book.Remaining(ctx, ledger.KeyFor(l.POLineID, l.LotNo), "")
		if err != nil {
			return nil, err
		}
		detail.Lines = append(detail.Lines, ChallanLineDetail{
			DeliveryChallanLine: l,
			LineNo:              line.LineNo,
			Description:         line.Description,
			Unit:                line.Unit,
			Rate:                line.Rate,
			Value:               tax.LineAmount(l.DispatchQty, line.Rate),
			Remaining:           remaining,
		})
	}
	return detail, nil
}

func (s *challanService) List(ctx context.Context, filter port.ChallanFilter) ([]domain.ChallanSummary, error) {
	return s.store.Challans().List(ctx, filter)
}

// InvoiceFor returns the invoice number linked to the DC, or "" when it is pending.
func (s *challanService) InvoiceFor(ctx context.Context, dcNumber string) (string, error) {
	exists, err := s.store.Challans().Exists(ctx, dcNumber)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", domain.NotFound("delivery challan %s not found", dcNumber)
	}
	return s.store.Invoices().LinkedInvoice(ctx, dcNumber)
}

func (s *challanService) Delete(ctx context.Context, dcNumber string) error {
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		exists, err := tx.Challans().Exists(ctx, dcNumber)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound("delivery challan %s not found", dcNumber)
		}
		invoice, err := tx.Invoices().LinkedInvoice(ctx, dcNumber)
		if err != nil {
			return err
		}
		if invoice != "" {
			return domain.Forbidden("delivery challan %s is linked to invoice %s and cannot be deleted",
				dcNumber, invoice)
		}
		return tx.Challans().Delete(ctx, dcNumber)
	})
	if err != nil {
		return err
	}
	s.log.Info("challanService.Delete: delivery challan deleted", zap.String("dc_number", dcNumber))
	return nil
}

func validateChallanInput(input *CreateChallanInput, mode challanMode) error {
	if input == nil {
		return domain.InvalidInput("request body is required")
	}
	input.DCNumber = strings.TrimSpace(input.DCNumber)
	input.PONumber = strings.TrimSpace(input.PONumber)

	if input.DCNumber == "" && (mode == modeUpdate || !input.AutoNumber) {
		return domain.InvalidInput("dc_number is required")
	}
	if err := requireDate("dc_date", input.DCDate); err != nil {
		return err
	}
	if input.PONumber == "" {
		return domain.InvalidInput("po_number is required")
	}
	if input.ConsigneeGSTIN != "" && !tax.ValidGSTIN(input.ConsigneeGSTIN) {
		return domain.InvalidInput("consignee_gstin %s is not a valid GSTIN", input.ConsigneeGSTIN)
	}
	if len(input.Lines) == 0 {
		return domain.InvalidInput("at least one line is required")
	}
	for i, l := range input.Lines {
		if strings.TrimSpace(l.POLineID) == "" {
			return domain.InvalidInput("line %d: po_line_id is required", i+1)
		}
		if !l.DispatchQty.IsPositive() {
			return domain.InvalidInput("line %d: dispatch_qty must be greater than zero", i+1)
		}
		if l.LotNo != nil && *l.LotNo <= 0 {
			return domain.InvalidInput("line %d: lot_no must be positive", i+1)
		}
		if l.HSNRate != nil && (l.HSNRate.IsNegative() || l.HSNRate.GreaterThan(maxHSNRate)) {
			return domain.InvalidInput("line %d: hsn_rate must be between 0 and 100", i+1)
		}
		input.Lines[i].POLineID = strings.TrimSpace(l.POLineID)
	}
	return nil
}

func buildChallan(number string, input *CreateChallanInput, lines []domain.DeliveryChallanLine) *domain.DeliveryChallan {
	return &domain.DeliveryChallan{
		DCNumber:          number,
		DCDate:            input.DCDate,
		PONumber:          input.PONumber,
		DepartmentNo:      input.DepartmentNo,
		ConsigneeName:     input.ConsigneeName,
		ConsigneeGSTIN:    input.ConsigneeGSTIN,
		ConsigneeAddress:  input.ConsigneeAddress,
		InspectionCompany: input.InspectionCompany,
		EwayBillNo:        input.EwayBillNo,
		VehicleNo:         input.VehicleNo,
		LRNo:              input.LRNo,
		Transporter:       input.Transporter,
		ModeOfTransport:   input.ModeOfTransport,
		Remarks:           input.Remarks,
		OwnerID:           input.OwnerID,
		Lines:             lines,
	}
}
