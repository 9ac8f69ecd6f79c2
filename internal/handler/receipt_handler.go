package handler

import (
	"github.com/gin-gonic/gin"

	"senstosales/internal/domain"
	"senstosales/internal/middleware"
	"senstosales/internal/service"
)

// ReceiptHandler handles SRV receipt endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Create handles POST /api/v1/srv-receipts
// @Summary Record an SRV receipt
// @Tags srv-receipts
// @Accept json
// @Produce json
// @Param request body service.CreateReceiptInput true "Receipt"
// @Success 201 {object} Response{data=domain.SRVReceipt} "Receipt recorded"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "PO not found"
// @Failure 409 {object} ErrorResponseBody "SRV number already exists"
// @Security BearerAuth
// @Router /srv-receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	var input service.CreateReceiptInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerID = middleware.GetOwnerID(c)

	receipt, err := h.receiptService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, receipt)
}

// ListByPO handles GET /api/v1/srv-receipts?po_number=
// @Summary List SRV receipts of a PO
// @Tags srv-receipts
// @Produce json
// @Param po_number query string true "PO number"
// @Success 200 {object} Response{data=[]domain.SRVReceipt} "Receipts"
// @Failure 400 {object} ErrorResponseBody "po_number missing"
// @Security BearerAuth
// @Router /srv-receipts [get]
func (h *ReceiptHandler) ListByPO(c *gin.Context) {
	poNumber := c.Query("po_number")
	if poNumber == "" {
		HandleError(c, domain.InvalidInput("po_number is required"))
		return
	}

	list, err := h.receiptService.ListByPO(c.Request.Context(), poNumber)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, list)
}
