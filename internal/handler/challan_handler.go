package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"senstosales/internal/middleware"
	"senstosales/internal/port"
	"senstosales/internal/service"
)

// ChallanHandler handles delivery challan endpoints. DC numbers contain
// slashes and must be URL-encoded in paths.
type ChallanHandler struct {
	challanService service.ChallanService
}

// NewChallanHandler creates a new ChallanHandler.
func NewChallanHandler(challanService service.ChallanService) *ChallanHandler {
	return &ChallanHandler{challanService: challanService}
}

// Create handles POST /api/v1/delivery-challans
// @Summary Create a delivery challan
// @Description Validates every line against the remaining PO quantity and writes the DC atomically
// @Tags delivery-challans
// @Accept json
// @Produce json
// @Param auto_number query bool false "Issue the next DC number when dc_number is empty"
// @Param request body service.CreateChallanInput true "Delivery challan"
// @Success 201 {object} Response{data=service.ChallanResult} "DC created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "PO, line or lot not found"
// @Failure 409 {object} ErrorResponseBody "DC number already exists"
// @Failure 422 {object} ErrorResponseBody "Quantity exceeds remaining"
// @Security BearerAuth
// @Router /delivery-challans [post]
func (h *ChallanHandler) Create(c *gin.Context) {
	var input service.CreateChallanInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerID = middleware.GetOwnerID(c)
	input.AutoNumber, _ = strconv.ParseBool(c.DefaultQuery("auto_number", "false"))

	result, err := h.challanService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// List handles GET /api/v1/delivery-challans
// @Summary List delivery challans
// @Tags delivery-challans
// @Produce json
// @Param po_number query string false "Only DCs of this PO"
// @Param pending query bool false "Only DCs without an invoice"
// @Success 200 {object} Response{data=[]domain.ChallanSummary} "Delivery challans"
// @Security BearerAuth
// @Router /delivery-challans [get]
func (h *ChallanHandler) List(c *gin.Context) {
	pending, _ := strconv.ParseBool(c.DefaultQuery("pending", "false"))
	filter := port.ChallanFilter{PONumber: c.Query("po_number"), PendingOnly: pending}

	list, err := h.challanService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, list)
}

// Get handles GET /api/v1/delivery-challans/:dc_number
// @Summary Get a delivery challan
// @Tags delivery-challans
// @Produce json
// @Param dc_number path string true "DC number (URL-encoded)"
// @Success 200 {object} Response{data=service.ChallanDetail} "Delivery challan"
// @Failure 404 {object} ErrorResponseBody "DC not found"
// @Security BearerAuth
// @Router /delivery-challans/{dc_number} [get]
func (h *ChallanHandler) Get(c *gin.Context) {
	dc, err := h.challanService.Get(c.Request.Context(), c.Param("dc_number"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, dc)
}

// Update handles PUT /api/v1/delivery-challans/:dc_number
// @Summary Replace a delivery challan
// @Description Re-validates every line excluding the DC's own prior quantities; refused once invoiced
// @Tags delivery-challans
// @Accept json
// @Produce json
// @Param dc_number path string true "DC number (URL-encoded)"
// @Param request body service.CreateChallanInput true "Delivery challan"
// @Success 200 {object} Response{data=service.ChallanResult} "DC updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 403 {object} ErrorResponseBody "DC already invoiced"
// @Failure 404 {object} ErrorResponseBody "DC not found"
// @Failure 422 {object} ErrorResponseBody "Quantity exceeds remaining"
// @Security BearerAuth
// @Router /delivery-challans/{dc_number} [put]
func (h *ChallanHandler) Update(c *gin.Context) {
	var input service.CreateChallanInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerID = middleware.GetOwnerID(c)

	result, err := h.challanService.Update(c.Request.Context(), c.Param("dc_number"), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Delete handles DELETE /api/v1/delivery-challans/:dc_number
// @Summary Delete a delivery challan
// @Tags delivery-challans
// @Produce json
// @Param dc_number path string true "DC number (URL-encoded)"
// @Success 200 {object} Response{data=MessageResponse} "DC deleted"
// @Failure 403 {object} ErrorResponseBody "DC already invoiced"
// @Failure 404 {object} ErrorResponseBody "DC not found"
// @Security BearerAuth
// @Router /delivery-challans/{dc_number} [delete]
func (h *ChallanHandler) Delete(c *gin.Context) {
	if err := h.challanService.Delete(c.Request.Context(), c.Param("dc_number")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "delivery challan deleted"})
}

// Invoice handles GET /api/v1/delivery-challans/:dc_number/invoice
// @Summary Invoice linked to a delivery challan
// @Tags delivery-challans
// @Produce json
// @Param dc_number path string true "DC number (URL-encoded)"
// @Success 200 {object} Response{data=InvoiceLinkResponse} "Link"
// @Failure 404 {object} ErrorResponseBody "DC not found"
// @Security BearerAuth
// @Router /delivery-challans/{dc_number}/invoice [get]
func (h *ChallanHandler) Invoice(c *gin.Context) {
	dcNumber := c.Param("dc_number")
	invoiceNumber, err := h.challanService.InvoiceFor(c.Request.Context(), dcNumber)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, InvoiceLinkResponse{
		DCNumber:      dcNumber,
		HasInvoice:    invoiceNumber != "",
		InvoiceNumber: invoiceNumber,
	})
}
