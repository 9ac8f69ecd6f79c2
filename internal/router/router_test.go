package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"senstosales/internal/command"
	"senstosales/internal/config"
	"senstosales/internal/domain"
	"senstosales/internal/handler"
	"senstosales/internal/router"
	"senstosales/internal/service"
	"senstosales/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type services struct {
	pos      *mocks.MockPurchaseOrderService
	challans *mocks.MockChallanService
	invoices *mocks.MockInvoiceService
	receipts *mocks.MockReceiptService
	ledger   *mocks.MockLedgerService
}

func setup() (*gin.Engine, *services) {
	s := &services{
		pos:      new(mocks.MockPurchaseOrderService),
		challans: new(mocks.MockChallanService),
		invoices: new(mocks.MockInvoiceService),
		receipts: new(mocks.MockReceiptService),
		ledger:   new(mocks.MockLedgerService),
	}
	log := zap.NewNop()
	h := router.Handlers{
		Health:         handler.NewHealthHandler(mocks.NewMockStore()),
		PurchaseOrders: handler.NewPurchaseOrderHandler(s.pos, s.ledger),
		Challans:       handler.NewChallanHandler(s.challans),
		Invoices:       handler.NewInvoiceHandler(s.invoices),
		Receipts:       handler.NewReceiptHandler(s.receipts),
		Actions:        handler.NewActionHandler(command.NewDispatcher(s.challans, s.invoices, s.ledger, log)),
	}
	return router.Setup(&config.Config{}, log, nil, h), s
}

func TestRouter_EncodedInvoiceNumber(t *testing.T) {
	r, s := setup()
	s.invoices.On("Get", mock.Anything, "INV/2025-26/001").
		Return(&domain.GSTInvoice{InvoiceNumber: "INV/2025-26/001"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices/INV%2F2025-26%2F001", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	s.invoices.AssertExpectations(t)
}

func TestRouter_NextNumberIsNotAnInvoiceNumber(t *testing.T) {
	r, s := setup()
	s.invoices.On("PeekNextNumber", mock.Anything).
		Return(&service.NextNumber{InvoiceNumber: "INV/2025-26/001", FinancialYear: "2025-26"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices/next-number", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	s.invoices.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestRouter_EncodedDCNumberAndInvoiceLink(t *testing.T) {
	r, s := setup()
	s.challans.On("InvoiceFor", mock.Anything, "DC/2025-26/004").Return("", nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/delivery-challans/DC%2F2025-26%2F004/invoice", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_invoice":false`)
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := setup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
