package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"senstosales/internal/domain"
	"senstosales/internal/middleware"
	"senstosales/internal/service"
)

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	poService     service.PurchaseOrderService
	ledgerService service.LedgerService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(poService service.PurchaseOrderService, ledgerService service.LedgerService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService, ledgerService: ledgerService}
}

// Ingest handles POST /api/v1/purchase-orders
// @Summary Ingest a purchase order
// @Description Create a PO with its lines and lots, or replace the lines of a PO no DC references yet
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param request body service.IngestPOInput true "Purchase order"
// @Success 201 {object} Response{data=service.IngestResult} "PO created"
// @Success 200 {object} Response{data=service.IngestResult} "PO replaced"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "PO already has delivery challans"
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Ingest(c *gin.Context) {
	var input service.IngestPOInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerID = middleware.GetOwnerID(c)

	result, err := h.poService.Ingest(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if result.Created {
		RespondCreated(c, result)
		return
	}
	RespondOK(c, result)
}

// List handles GET /api/v1/purchase-orders
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Success 200 {object} Response{data=[]domain.PurchaseOrder} "Purchase orders"
// @Security BearerAuth
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	pos, err := h.poService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, pos)
}

// Get handles GET /api/v1/purchase-orders/:po_number
// @Summary Get a purchase order
// @Description Header, lines, lots and the ledger position of every line
// @Tags purchase-orders
// @Produce json
// @Param po_number path string true "PO number"
// @Success 200 {object} Response{data=domain.PurchaseOrder} "Purchase order"
// @Failure 404 {object} ErrorResponseBody "PO not found"
// @Security BearerAuth
// @Router /purchase-orders/{po_number} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	po, err := h.poService.Get(c.Request.Context(), c.Param("po_number"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, po)
}

// UpdateStatus handles PATCH /api/v1/purchase-orders/:po_number/status
// @Summary Change PO status
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param po_number path string true "PO number"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Response{data=MessageResponse} "Status updated"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 404 {object} ErrorResponseBody "PO not found"
// @Security BearerAuth
// @Router /purchase-orders/{po_number}/status [patch]
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.poService.UpdateStatus(c.Request.Context(), c.Param("po_number"), req.Status); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "status updated"})
}

// Delete handles DELETE /api/v1/purchase-orders/:po_number
// @Summary Delete a purchase order
// @Description Refused while any delivery challan or SRV receipt references the PO
// @Tags purchase-orders
// @Produce json
// @Param po_number path string true "PO number"
// @Success 200 {object} Response{data=MessageResponse} "PO deleted"
// @Failure 404 {object} ErrorResponseBody "PO not found"
// @Failure 409 {object} ErrorResponseBody "PO has dependents"
// @Security BearerAuth
// @Router /purchase-orders/{po_number} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	if err := h.poService.Delete(c.Request.Context(), c.Param("po_number")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "purchase order deleted"})
}

// Remaining handles GET /api/v1/po-lines/:line_id/remaining
// @Summary Ledger position of a PO line or lot
// @Tags purchase-orders
// @Produce json
// @Param line_id path string true "PO line id"
// @Param lot_no query int false "Delivery lot number"
// @Success 200 {object} Response{data=domain.Position} "Position"
// @Failure 400 {object} ErrorResponseBody "Invalid lot number"
// @Failure 404 {object} ErrorResponseBody "Line or lot not found"
// @Security BearerAuth
// @Router /po-lines/{line_id}/remaining [get]
func (h *PurchaseOrderHandler) Remaining(c *gin.Context) {
	var lotNo *int
	if raw := c.Query("lot_no"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			HandleError(c, domain.InvalidInput("lot_no must be a positive integer"))
			return
		}
		lotNo = &n
	}

	pos, err := h.ledgerService.Position(c.Request.Context(), c.Param("line_id"), lotNo)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, pos)
}
