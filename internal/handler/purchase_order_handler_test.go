package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"senstosales/internal/domain"
	"senstosales/internal/handler"
	"senstosales/internal/service"
	"senstosales/mocks"
)

func newPOHandler() (*handler.PurchaseOrderHandler, *mocks.MockPurchaseOrderService, *mocks.MockLedgerService) {
	poSvc := new(mocks.MockPurchaseOrderService)
	ledgerSvc := new(mocks.MockLedgerService)
	return handler.NewPurchaseOrderHandler(poSvc, ledgerSvc), poSvc, ledgerSvc
}

func TestPurchaseOrderHandler_Ingest_CreatedVsReplaced(t *testing.T) {
	for _, created := range []bool{true, false} {
		h, poSvc, _ := newPOHandler()
		poSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(in *service.IngestPOInput) bool {
			return in.PONumber == "PO-1" && len(in.Lines) == 1
		})).Return(&service.IngestResult{PONumber: "PO-1", Created: created, LineCount: 1}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/api/v1/purchase-orders", map[string]interface{}{
			"po_number": "PO-1",
			"lines": []map[string]interface{}{
				{"line_no": 1, "ordered_qty": "100", "rate": "200"},
			},
		})

		h.Ingest(c)

		if created {
			assert.Equal(t, http.StatusCreated, w.Code)
		} else {
			assert.Equal(t, http.StatusOK, w.Code)
		}
	}
}

func TestPurchaseOrderHandler_Delete_HasDependents(t *testing.T) {
	h, poSvc, _ := newPOHandler()
	conflict := domain.Conflict("purchase order PO-1 is referenced")
	conflict.Details = map[string]any{"delivery_challans": 2, "receipts": 0}
	poSvc.On("Delete", mock.Anything, "PO-1").Return(conflict)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "po_number", Value: "PO-1"}}
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/purchase-orders/PO-1", http.NoBody)

	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"delivery_challans":2`)
}

func TestPurchaseOrderHandler_UpdateStatus(t *testing.T) {
	h, poSvc, _ := newPOHandler()
	poSvc.On("UpdateStatus", mock.Anything, "PO-1", domain.POStatusClosed).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "po_number", Value: "PO-1"}}
	c.Request = jsonRequest(t, http.MethodPatch, "/api/v1/purchase-orders/PO-1/status", map[string]string{"status": "closed"})

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	poSvc.AssertExpectations(t)
}

func TestPurchaseOrderHandler_Remaining(t *testing.T) {
	h, _, ledgerSvc := newPOHandler()
	lot := 2
	ledgerSvc.On("Position", mock.Anything, "L1", &lot).Return(&domain.Position{
		Ordered: decimal.NewFromInt(60), Dispatched: decimal.NewFromInt(20), Remaining: decimal.NewFromInt(40),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "line_id", Value: "L1"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/po-lines/L1/remaining?lot_no=2", http.NoBody)

	h.Remaining(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":"40"`)
}

func TestPurchaseOrderHandler_Remaining_BadLot(t *testing.T) {
	h, _, ledgerSvc := newPOHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "line_id", Value: "L1"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/po-lines/L1/remaining?lot_no=abc", http.NoBody)

	h.Remaining(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledgerSvc.AssertNotCalled(t, "Position", mock.Anything, mock.Anything, mock.Anything)
}
