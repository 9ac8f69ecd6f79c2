package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"senstosales/internal/csvexport"
	"senstosales/internal/middleware"
	"senstosales/internal/port"
	"senstosales/internal/service"
)

// InvoiceHandler handles GST invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /api/v1/invoices
// @Summary Raise a GST invoice for a delivery challan
// @Description A DC carries at most one invoice. The number is issued when not supplied.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body service.CreateInvoiceInput true "Invoice"
// @Success 201 {object} Response{data=service.InvoiceResult} "Invoice created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "DC not found"
// @Failure 409 {object} ErrorResponseBody "DC already invoiced or number taken"
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var input service.CreateInvoiceInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerID = middleware.GetOwnerID(c)

	result, err := h.invoiceService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param po_number query string false "Only invoices of this PO"
// @Param dc_number query string false "Only the invoice of this DC"
// @Success 200 {object} Response{data=[]domain.GSTInvoice} "Invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := port.InvoiceFilter{PONumber: c.Query("po_number"), DCNumber: c.Query("dc_number")}

	list, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, list)
}

// NextNumber handles GET /api/v1/invoices/next-number
// @Summary Preview the next invoice number
// @Description Advisory only; the number is not reserved
// @Tags invoices
// @Produce json
// @Success 200 {object} Response{data=service.NextNumber} "Next number"
// @Security BearerAuth
// @Router /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	next, err := h.invoiceService.PeekNextNumber(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, next)
}

// Get handles GET /api/v1/invoices/:invoice_number
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param invoice_number path string true "Invoice number (URL-encoded)"
// @Success 200 {object} Response{data=domain.GSTInvoice} "Invoice"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoice_number} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.invoiceService.Get(c.Request.Context(), c.Param("invoice_number"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// Export handles GET /api/v1/invoices/export
// @Summary Download the invoice register as CSV
// @Tags invoices
// @Produce text/csv
// @Param po_number query string false "Only invoices of this PO"
// @Success 200 {file} file "CSV file"
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	poNumber := c.Query("po_number")
	list, err := h.invoiceService.List(c.Request.Context(), port.InvoiceFilter{PONumber: poNumber})
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(poNumber, time.Now())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write(csvexport.BOM)
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteInvoices(list); err != nil {
		return
	}
	w.Flush()
}
