package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"senstosales/internal/auth"
	"senstosales/internal/config"
	"senstosales/internal/handler"
	"senstosales/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health         *handler.HealthHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Challans       *handler.ChallanHandler
	Invoices       *handler.InvoiceHandler
	Receipts       *handler.ReceiptHandler
	Actions        *handler.ActionHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log *zap.Logger, verifier auth.TokenVerifier, h Handlers) *gin.Engine {
	r := gin.New()

	// Document numbers such as INV/2025-26/001 travel URL-encoded in paths.
	r.UseRawPath = true
	r.UnescapePathValues = true

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID(log))
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(verifier))

	pos := v1.Group("/purchase-orders")
	pos.POST("", h.PurchaseOrders.Ingest)
	pos.GET("", h.PurchaseOrders.List)
	pos.GET("/:po_number", h.PurchaseOrders.Get)
	pos.PATCH("/:po_number/status", h.PurchaseOrders.UpdateStatus)
	pos.DELETE("/:po_number", h.PurchaseOrders.Delete)

	v1.GET("/po-lines/:line_id/remaining", h.PurchaseOrders.Remaining)

	dcs := v1.Group("/delivery-challans")
	dcs.POST("", h.Challans.Create)
	dcs.GET("", h.Challans.List)
	dcs.GET("/:dc_number", h.Challans.Get)
	dcs.PUT("/:dc_number", h.Challans.Update)
	dcs.DELETE("/:dc_number", h.Challans.Delete)
	dcs.GET("/:dc_number/invoice", h.Challans.Invoice)

	invoices := v1.Group("/invoices")
	invoices.POST("", h.Invoices.Create)
	invoices.GET("", h.Invoices.List)
	invoices.GET("/next-number", h.Invoices.NextNumber)
	invoices.GET("/export", h.Invoices.Export)
	invoices.GET("/:invoice_number", h.Invoices.Get)

	receipts := v1.Group("/srv-receipts")
	receipts.POST("", h.Receipts.Create)
	receipts.GET("", h.Receipts.ListByPO)

	actions := v1.Group("/actions")
	actions.POST("/:action/verify", h.Actions.Verify)
	actions.POST("/:action/confirm", h.Actions.Confirm)

	return r
}
