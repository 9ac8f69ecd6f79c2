package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/sequence"
	"senstosales/internal/tax"
)

// CreateInvoiceInput is the DTO for raising a GST invoice against one DC.
// Amounts are never accepted from the caller.
type CreateInvoiceInput struct {
	OwnerID string `json:"-"`

	// InvoiceNumber is optional; the next INV/FY/NNN is issued when empty.
	InvoiceNumber  string `json:"invoice_number"`
	InvoiceDate    string `json:"invoice_date"`
	DCNumber       string `json:"dc_number"`
	BuyerName      string `json:"buyer_name"`
	BuyerGSTIN     string `json:"buyer_gstin"`
	BuyerStateCode string `json:"buyer_state_code"`
	PlaceOfSupply  string `json:"place_of_supply"`
	Remarks        string `json:"remarks"`
}

// InvoiceResult is returned by InvoiceService.Create.
type InvoiceResult struct {
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	LineCount     int             `json:"line_count"`
}

// NextNumber is an advisory preview of the number Create would issue now.
type NextNumber struct {
	InvoiceNumber string `json:"invoice_number"`
	FinancialYear string `json:"financial_year"`
}

// InvoiceService validates and persists GST invoices.
type InvoiceService interface {
	Create(ctx context.Context, input *CreateInvoiceInput) (*InvoiceResult, error)
	Preview(ctx context.Context, input *CreateInvoiceInput) (*domain.GSTInvoice, error)
	Get(ctx context.Context, invoiceNumber string) (*domain.GSTInvoice, error)
	List(ctx context.Context, filter port.InvoiceFilter) ([]domain.GSTInvoice, error)
	PeekNextNumber(ctx context.Context) (*NextNumber, error)
}

type invoiceService struct {
	store   port.Store
	numbers *sequence.Generator
	rates   *tax.RateSelector
	archive port.InvoiceArchive
	log     *zap.Logger
}

// NewInvoiceService creates a new InvoiceService implementation. archive may be nil.
func NewInvoiceService(store port.Store, numbers *sequence.Generator, rates *tax.RateSelector,
	archive port.InvoiceArchive, log *zap.Logger) InvoiceService {
	return &invoiceService{
		store:   store,
		numbers: numbers,
		rates:   rates,
		archive: archive,
		log:     log,
	}
}

func (s *invoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*InvoiceResult, error) {
	if err := s.precheck(ctx, input); err != nil {
		return nil, err
	}

	var inv *domain.GSTInvoice
	err := s.store.WithinExclusiveTx(ctx, func(tx port.Repositories) error {
		var err error
		if inv, err = s.draft(ctx, tx, input); err != nil {
			return err
		}
		if err := tx.Invoices().Create(ctx, inv); err != nil {
			return conflictAs(err, "invoice %s or a link for delivery challan %s already exists",
				inv.InvoiceNumber, input.DCNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoiceService.Create: invoice created",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("dc_number", inv.DCNumber),
		zap.String("total", inv.Total.StringFixed(2)))

	if s.archive != nil {
		if err := s.archive.Archive(ctx, inv); err != nil {
			s.log.Error("invoiceService.Create: archiving invoice failed",
				zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		}
	}

	return &InvoiceResult{
		InvoiceNumber: inv.InvoiceNumber,
		TotalAmount:   inv.Total,
		LineCount:     len(inv.Lines),
	}, nil
}

// Preview runs the Create checks against committed data and returns the
// invoice Create would write now. The number is not reserved.
func (s *invoiceService) Preview(ctx context.Context, input *CreateInvoiceInput) (*domain.GSTInvoice, error) {
	if err := s.precheck(ctx, input); err != nil {
		return nil, err
	}
	return s.draft(ctx, s.store, input)
}

func (s *invoiceService) precheck(ctx context.Context, input *CreateInvoiceInput) error {
	if err := validateInvoiceInput(input); err != nil {
		return err
	}
	if err := checkSuppliedNumber(s.numbers, "invoice_number", input.InvoiceNumber); err != nil {
		return err
	}

	exists, err := s.store.Challans().Exists(ctx, input.DCNumber)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFound("delivery challan %s not found", input.DCNumber)
	}
	return nil
}

// draft resolves the number and computes every amount. Create calls it with
// the transaction's repositories, Preview with the committed store.
func (s *invoiceService) draft(ctx context.Context, repos port.Repositories, input *CreateInvoiceInput) (*domain.GSTInvoice, error) {
	linked, err := repos.Invoices().LinkedInvoice(ctx, input.DCNumber)
	if err != nil {
		return nil, err
	}
	if linked != "" {
		e := domain.Conflict("delivery challan %s is already invoiced by %s", input.DCNumber, linked)
		e.Details = map[string]any{"invoice_number": linked}
		return nil, e
	}

	number := input.InvoiceNumber
	if number != "" {
		taken, err := repos.Invoices().Exists(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("invoice %s already exists", number)
		}
	} else if number, err = s.numbers.Next(ctx, repos.Invoices()); err != nil {
		return nil, err
	}

	dc, err := repos.Challans().GetByNumber(ctx, input.DCNumber)
	if err != nil {
		return nil, notFoundAs(err, "delivery challan %s not found", input.DCNumber)
	}
	source, err := repos.Challans().InvoiceSourceLines(ctx, input.DCNumber)
	if err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, domain.InvalidInput("delivery challan %s has no lines", input.DCNumber)
	}
	return s.buildInvoice(number, dc, input, source), nil
}

// buildInvoice derives every amount from DC quantities and PO rates.
func (s *invoiceService) buildInvoice(number string, dc *domain.DeliveryChallan, input *CreateInvoiceInput, source []domain.InvoiceSourceLine) *domain.GSTInvoice {
	buyerState := input.BuyerStateCode
	if buyerState == "" {
		buyerState = tax.StateCodeFromGSTIN(input.BuyerGSTIN)
	}

	var totals tax.Totals
	lines := make([]domain.GSTInvoiceLine, 0, len(source))
	for _, src := range source {
		b := s.rates.Apply(tax.LineAmount(src.Quantity, src.Rate), src.HSNCode(), src.HSNRate, buyerState)
		totals.Add(b)
		lines = append(lines, domain.GSTInvoiceLine{
			DCLineID:     src.DCLineID,
			POLineID:     src.POLineID,
			LotNo:        src.LotNo,
			Description:  src.Description,
			HSNCode:      src.HSNCode(),
			Quantity:     src.Quantity,
			Rate:         src.Rate,
			TaxableValue: b.Taxable,
			CGSTRate:     b.CGSTRate,
			CGST:         b.CGST,
			SGSTRate:     b.SGSTRate,
			SGST:         b.SGST,
			IGSTRate:     b.IGSTRate,
			IGST:         b.IGST,
			Total:        b.Total,
		})
	}

	return &domain.GSTInvoice{
		InvoiceNumber:  number,
		InvoiceDate:    input.InvoiceDate,
		DCNumber:       dc.DCNumber,
		PONumber:       dc.PONumber,
		BuyerName:      input.BuyerName,
		BuyerGSTIN:     input.BuyerGSTIN,
		BuyerStateCode: buyerState,
		PlaceOfSupply:  input.PlaceOfSupply,
		TaxableValue:   totals.Taxable,
		CGST:           totals.CGST,
		SGST:           totals.SGST,
		IGST:           totals.IGST,
		Total:          totals.Total,
		Remarks:        input.Remarks,
		OwnerID:        input.OwnerID,
		Lines:          lines,
	}
}

func (s *invoiceService) Get(ctx context.Context, invoiceNumber string) (*domain.GSTInvoice, error) {
	inv, err := s.store.Invoices().GetByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, notFoundAs(err, "invoice %s not found", invoiceNumber)
	}
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.GSTInvoice, error) {
	return s.store.Invoices().List(ctx, filter)
}

// PeekNextNumber reads outside any transaction; the number is not reserved.
func (s *invoiceService) PeekNextNumber(ctx context.Context) (*NextNumber, error) {
	number, err := s.numbers.Next(ctx, s.store.Invoices())
	if err != nil {
		return nil, err
	}
	return &NextNumber{InvoiceNumber: number, FinancialYear: s.numbers.CurrentScope()}, nil
}

func validateInvoiceInput(input *CreateInvoiceInput) error {
	if input == nil {
		return domain.InvalidInput("request body is required")
	}
	input.DCNumber = strings.TrimSpace(input.DCNumber)
	input.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	input.BuyerGSTIN = strings.ToUpper(strings.TrimSpace(input.BuyerGSTIN))
	input.BuyerStateCode = strings.TrimSpace(input.BuyerStateCode)

	if input.DCNumber == "" {
		return domain.InvalidInput("dc_number is required")
	}
	if err := requireDate("invoice_date", input.InvoiceDate); err != nil {
		return err
	}
	if input.BuyerName == "" {
		return domain.InvalidInput("buyer_name is required")
	}
	if input.BuyerGSTIN != "" && !tax.ValidGSTIN(input.BuyerGSTIN) {
		return domain.InvalidInput("buyer_gstin %s is not a valid GSTIN", input.BuyerGSTIN)
	}
	if strings.Contains(input.InvoiceNumber, " ") {
		return domain.InvalidInput("invoice_number must not contain spaces")
	}
	return nil
}
