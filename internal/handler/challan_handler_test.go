package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"senstosales/internal/domain"
	"senstosales/internal/handler"
	"senstosales/internal/middleware"
	"senstosales/internal/port"
	"senstosales/internal/service"
	"senstosales/mocks"
)

func newChallanHandler() (*handler.ChallanHandler, *mocks.MockChallanService) {
	mockSvc := new(mocks.MockChallanService)
	return handler.NewChallanHandler(mockSvc), mockSvc
}

func jsonRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestChallanHandler_Create_Success(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateChallanInput) bool {
		return in.DCNumber == "DC-A" && in.OwnerID == "clerk-7" && !in.AutoNumber &&
			len(in.Lines) == 1 && in.Lines[0].DispatchQty.Equal(decimal.NewFromInt(60))
	})).Return(&service.ChallanResult{DCNumber: "DC-A", LineCount: 1}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextKeyOwnerID, "clerk-7")
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/delivery-challans", map[string]interface{}{
		"dc_number": "DC-A",
		"dc_date":   "2025-07-01",
		"po_number": "PO-1",
		"lines":     []map[string]interface{}{{"po_line_id": "L1", "dispatch_qty": "60"}},
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestChallanHandler_Create_AutoNumber(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateChallanInput) bool {
		return in.AutoNumber
	})).Return(&service.ChallanResult{DCNumber: "DC/2025-26/001", LineCount: 1}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/delivery-challans?auto_number=true",
		map[string]interface{}{"dc_date": "2025-07-01", "po_number": "PO-1"})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestChallanHandler_Create_QuantityExceeded(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.QuantityExceeded("PO line 1", decimal.NewFromInt(50), decimal.NewFromInt(40)))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/delivery-challans",
		map[string]interface{}{"dc_number": "DC-B", "dc_date": "2025-07-01", "po_number": "PO-1"})

	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Error.Message, "exceeds remaining (40)")
}

func TestChallanHandler_Create_MalformedBody(t *testing.T) {
	h, _ := newChallanHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/delivery-challans", bytes.NewBufferString("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChallanHandler_List_PendingFilter(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("List", mock.Anything, port.ChallanFilter{PONumber: "PO-1", PendingOnly: true}).
		Return([]domain.ChallanSummary{{DCNumber: "DC-B", Status: domain.ChallanStatusPending}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/delivery-challans?po_number=PO-1&pending=true", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestChallanHandler_Update_Invoiced(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("Update", mock.Anything, "DC-A", mock.Anything).
		Return(nil, domain.Forbidden("delivery challan DC-A is invoiced and cannot be changed"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "dc_number", Value: "DC-A"}}
	c.Request = jsonRequest(t, http.MethodPut, "/api/v1/delivery-challans/DC-A",
		map[string]interface{}{"dc_date": "2025-07-01", "po_number": "PO-1"})

	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChallanHandler_Get_NotFound(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("Get", mock.Anything, "DC-Z").Return(nil, domain.NotFound("delivery challan DC-Z not found"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "dc_number", Value: "DC-Z"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/delivery-challans/DC-Z", http.NoBody)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChallanHandler_Invoice(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("InvoiceFor", mock.Anything, "DC-A").Return("INV/2025-26/001", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "dc_number", Value: "DC-A"}}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/delivery-challans/DC-A/invoice", http.NoBody)

	h.Invoice(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_invoice":true`)
}

func TestChallanHandler_Delete(t *testing.T) {
	h, mockSvc := newChallanHandler()
	mockSvc.On("Delete", mock.Anything, "DC-B").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "dc_number", Value: "DC-B"}}
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/delivery-challans/DC-B", http.NoBody)

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
