package handler

import "senstosales/internal/domain"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message" example:"purchase order deleted"`
}

// UpdateStatusRequest represents the PO status change body.
type UpdateStatusRequest struct {
	Status domain.POStatus `json:"status" binding:"required" example:"closed"`
}

// InvoiceLinkResponse answers whether a DC has been invoiced.
type InvoiceLinkResponse struct {
	DCNumber      string `json:"dc_number" example:"DC/2025-26/004"`
	HasInvoice    bool   `json:"has_invoice" example:"true"`
	InvoiceNumber string `json:"invoice_number,omitempty" example:"INV/2025-26/001"`
}
