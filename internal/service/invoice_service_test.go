package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"senstosales/internal/domain"
	"senstosales/internal/sequence"
	"senstosales/internal/service"
	"senstosales/internal/tax"
	"senstosales/mocks"
)

func setupInvoiceService(log *zap.Logger) (service.InvoiceService, *mocks.MockStore, *mocks.MockInvoiceArchive) {
	store := mocks.NewMockStore()
	archive := new(mocks.MockInvoiceArchive)
	gen := sequence.NewGenerator("INV", sequence.WithClock(fixedClock))
	rates := tax.NewRateSelector(nil, "33", decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.NewFromInt(18))
	return service.NewInvoiceService(store, gen, rates, archive, log), store, archive
}

func invoiceInput() *service.CreateInvoiceInput {
	return &service.CreateInvoiceInput{
		InvoiceDate: "2025-07-02",
		DCNumber:    "DC-A",
		BuyerName:   "Southern Railway",
	}
}

// expectInvoiceableDC wires DC-A with one 60-unit line at rate 200.
func expectInvoiceableDC(store *mocks.MockStore) {
	store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(true, nil)
	store.InvoiceRepo.On("LinkedInvoice", mock.Anything, "DC-A").Return("", nil)
	store.ChallanRepo.On("GetByNumber", mock.Anything, "DC-A").
		Return(&domain.DeliveryChallan{DCNumber: "DC-A", PONumber: "PO-1"}, nil)
	store.ChallanRepo.On("InvoiceSourceLines", mock.Anything, "DC-A").Return([]domain.InvoiceSourceLine{{
		DCLineID:    "DCL1",
		POLineID:    "L1",
		Quantity:    dec("60"),
		POHSNCode:   "8708",
		Description: "Brake block",
		Rate:        dec("200"),
	}}, nil)
}

func TestInvoiceService_Create_ComputesTotals(t *testing.T) {
	svc, store, archive := setupInvoiceService(zap.NewNop())
	expectInvoiceableDC(store)
	store.InvoiceRepo.On("LastNumber", mock.Anything, "INV/2025-26/").Return("", nil)

	var saved *domain.GSTInvoice
	store.InvoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.GSTInvoice")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.GSTInvoice) }).
		Return(nil)
	archive.On("Archive", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Create(context.Background(), invoiceInput())

	require.NoError(t, err)
	assert.Equal(t, "INV/2025-26/001", result.InvoiceNumber)
	assert.Equal(t, "14160.00", result.TotalAmount.StringFixed(2))
	assert.Equal(t, 1, result.LineCount)

	require.NotNil(t, saved)
	assert.Equal(t, "12000.00", saved.TaxableValue.StringFixed(2))
	assert.Equal(t, "1080.00", saved.CGST.StringFixed(2))
	assert.Equal(t, "1080.00", saved.SGST.StringFixed(2))
	assert.True(t, saved.IGST.IsZero())
	assert.Equal(t, "PO-1", saved.PONumber)
	require.Len(t, saved.Lines, 1)
	assert.Equal(t, "DCL1", saved.Lines[0].DCLineID)
	assert.Equal(t, "8708", saved.Lines[0].HSNCode)
	assert.Equal(t, 1, store.TxCount)
	archive.AssertExpectations(t)
}

func TestInvoiceService_Create_InterstateUsesIGST(t *testing.T) {
	svc, store, archive := setupInvoiceService(zap.NewNop())
	expectInvoiceableDC(store)
	store.InvoiceRepo.On("LastNumber", mock.Anything, "INV/2025-26/").Return("INV/2025-26/041", nil)

	var saved *domain.GSTInvoice
	store.InvoiceRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.GSTInvoice) }).
		Return(nil)
	archive.On("Archive", mock.Anything, mock.Anything).Return(nil)

	in := invoiceInput()
	in.BuyerGSTIN = "29abcde1234f1z5"
	result, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "INV/2025-26/042", result.InvoiceNumber)
	assert.Equal(t, "29", saved.BuyerStateCode)
	assert.Equal(t, "2160.00", saved.IGST.StringFixed(2))
	assert.True(t, saved.CGST.IsZero())
	assert.Equal(t, "14160.00", saved.Total.StringFixed(2))
}

func TestInvoiceService_Create_DCAlreadyInvoiced(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())
	store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(true, nil)
	store.InvoiceRepo.On("LinkedInvoice", mock.Anything, "DC-A").Return("INV/2025-26/001", nil)

	result, err := svc.Create(context.Background(), invoiceInput())

	assert.Nil(t, result)
	assertKind(t, err, domain.KindConflict)
	assert.Contains(t, err.Error(), "INV/2025-26/001")

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INV/2025-26/001", de.Details["invoice_number"])
	store.InvoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_UnknownDC(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())
	store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(false, nil)

	_, err := svc.Create(context.Background(), invoiceInput())

	assertKind(t, err, domain.KindNotFound)
	assert.Equal(t, 0, store.TxCount)
}

func TestInvoiceService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *service.CreateInvoiceInput)
	}{
		{"missing dc", func(in *service.CreateInvoiceInput) { in.DCNumber = "" }},
		{"missing date", func(in *service.CreateInvoiceInput) { in.InvoiceDate = "" }},
		{"bad date", func(in *service.CreateInvoiceInput) { in.InvoiceDate = "2025-13-01" }},
		{"missing buyer", func(in *service.CreateInvoiceInput) { in.BuyerName = "  " }},
		{"bad gstin", func(in *service.CreateInvoiceInput) { in.BuyerGSTIN = "33ABC" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := setupInvoiceService(zap.NewNop())
			in := invoiceInput()
			tt.mutate(in)

			_, err := svc.Create(context.Background(), in)

			assertKind(t, err, domain.KindInvalidInput)
			assert.Equal(t, 0, store.TxCount)
		})
	}
}

func TestInvoiceService_Create_SuppliedNumberTaken(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())
	store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(true, nil)
	store.InvoiceRepo.On("LinkedInvoice", mock.Anything, "DC-A").Return("", nil)
	store.InvoiceRepo.On("Exists", mock.Anything, "INV-MANUAL-1").Return(true, nil)

	in := invoiceInput()
	in.InvoiceNumber = "INV-MANUAL-1"
	_, err := svc.Create(context.Background(), in)

	assertKind(t, err, domain.KindConflict)
	assert.Contains(t, err.Error(), "INV-MANUAL-1 already exists")
}

func TestInvoiceService_Create_DCWithoutLines(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())
	store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(true, nil)
	store.InvoiceRepo.On("LinkedInvoice", mock.Anything, "DC-A").Return("", nil)
	store.InvoiceRepo.On("LastNumber", mock.Anything, mock.Anything).Return("", nil)
	store.ChallanRepo.On("GetByNumber", mock.Anything, "DC-A").Return(&domain.DeliveryChallan{DCNumber: "DC-A"}, nil)
	store.ChallanRepo.On("InvoiceSourceLines", mock.Anything, "DC-A").Return([]domain.InvoiceSourceLine{}, nil)

	_, err := svc.Create(context.Background(), invoiceInput())

	assertKind(t, err, domain.KindInvalidInput)
	assert.Contains(t, err.Error(), "has no lines")
}

func TestInvoiceService_Create_ArchiveFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	svc, store, archive := setupInvoiceService(zap.New(core))
	expectInvoiceableDC(store)
	store.InvoiceRepo.On("LastNumber", mock.Anything, mock.Anything).Return("", nil)
	store.InvoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	archive.On("Archive", mock.Anything, mock.Anything).Return(errors.New("s3 unavailable"))

	result, err := svc.Create(context.Background(), invoiceInput())

	require.NoError(t, err)
	assert.Equal(t, "INV/2025-26/001", result.InvoiceNumber)
	assert.Equal(t, 1, logs.FilterMessageSnippet("archiving invoice failed").Len())
}

func TestInvoiceService_Get_NotFound(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())
	store.InvoiceRepo.On("GetByNumber", mock.Anything, "INV/2025-26/009").Return(nil, domain.ErrNotFound)

	_, err := svc.Get(context.Background(), "INV/2025-26/009")

	assertKind(t, err, domain.KindNotFound)
	assert.Contains(t, err.Error(), "INV/2025-26/009")
}

func TestInvoiceService_PeekNextNumber(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())
	store.InvoiceRepo.On("LastNumber", mock.Anything, "INV/2025-26/").Return("INV/2025-26/999", nil)

	next, err := svc.PeekNextNumber(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "INV/2025-26/1000", next.InvoiceNumber)
	assert.Equal(t, "2025-26", next.FinancialYear)
	assert.Equal(t, 0, store.TxCount)
}

func TestInvoiceService_Create_RejectsNonNumericSuffixInCounterNamespace(t *testing.T) {
	svc, store, _ := setupInvoiceService(zap.NewNop())

	in := invoiceInput()
	in.InvoiceNumber = "INV/2025-26/002-R"
	_, err := svc.Create(context.Background(), in)

	assertKind(t, err, domain.KindInvalidInput)
	assert.Equal(t, 0, store.TxCount)
	store.ChallanRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestInvoiceService_Preview_MatchesCreateWithoutWriting(t *testing.T) {
	svc, store, archive := setupInvoiceService(zap.NewNop())
	expectInvoiceableDC(store)
	store.InvoiceRepo.On("LastNumber", mock.Anything, "INV/2025-26/").Return("INV/2025-26/004", nil)

	draft, err := svc.Preview(context.Background(), invoiceInput())

	require.NoError(t, err)
	assert.Equal(t, "INV/2025-26/005", draft.InvoiceNumber)
	assert.Equal(t, "12000.00", draft.TaxableValue.StringFixed(2))
	assert.Equal(t, "14160.00", draft.Total.StringFixed(2))
	assert.Equal(t, 0, store.TxCount)
	store.InvoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	archive.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
}

func TestInvoiceService_Preview_Rejections(t *testing.T) {
	t.Run("missing buyer", func(t *testing.T) {
		svc, store, _ := setupInvoiceService(zap.NewNop())
		in := invoiceInput()
		in.BuyerName = ""

		_, err := svc.Preview(context.Background(), in)

		assertKind(t, err, domain.KindInvalidInput)
		assert.Contains(t, err.Error(), "buyer_name")
		store.ChallanRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("dc without lines", func(t *testing.T) {
		svc, store, _ := setupInvoiceService(zap.NewNop())
		store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(true, nil)
		store.InvoiceRepo.On("LinkedInvoice", mock.Anything, "DC-A").Return("", nil)
		store.InvoiceRepo.On("LastNumber", mock.Anything, mock.Anything).Return("", nil)
		store.ChallanRepo.On("GetByNumber", mock.Anything, "DC-A").Return(&domain.DeliveryChallan{DCNumber: "DC-A"}, nil)
		store.ChallanRepo.On("InvoiceSourceLines", mock.Anything, "DC-A").Return([]domain.InvoiceSourceLine{}, nil)

		_, err := svc.Preview(context.Background(), invoiceInput())

		assertKind(t, err, domain.KindInvalidInput)
		assert.Contains(t, err.Error(), "has no lines")
	})

	t.Run("already invoiced", func(t *testing.T) {
		svc, store, _ := setupInvoiceService(zap.NewNop())
		store.ChallanRepo.On("Exists", mock.Anything, "DC-A").Return(true, nil)
		store.InvoiceRepo.On("LinkedInvoice", mock.Anything, "DC-A").Return("INV/2025-26/001", nil)

		_, err := svc.Preview(context.Background(), invoiceInput())

		assertKind(t, err, domain.KindConflict)
		assert.Contains(t, err.Error(), "INV/2025-26/001")
	})
}
