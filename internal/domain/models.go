package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is the originating commercial document. Lines are loaded on demand.
type PurchaseOrder struct {
	PONumber     string          `db:"po_number" json:"po_number"`
	PODate       string          `db:"po_date" json:"po_date"`
	BuyerName    string          `db:"buyer_name" json:"buyer_name"`
	BuyerGSTIN   string          `db:"buyer_gstin" json:"buyer_gstin"`
	DepartmentNo string          `db:"department_no" json:"department_no"`
	POValue      decimal.Decimal `db:"po_value" json:"po_value"`
	Status       POStatus        `db:"status" json:"status"`
	OwnerID      string          `db:"owner_id" json:"owner_id,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	Lines []PurchaseOrderLine `db:"-" json:"lines,omitempty"`
}

// PurchaseOrderLine is one orderable item of a PO.
type PurchaseOrderLine struct {
	ID           string          `db:"id" json:"id"`
	PONumber     string          `db:"po_number" json:"po_number"`
	LineNo       int             `db:"line_no" json:"line_no"`
	MaterialCode string          `db:"material_code" json:"material_code"`
	Description  string          `db:"description" json:"description"`
	Unit         string          `db:"unit" json:"unit"`
	HSNCode      string          `db:"hsn_code" json:"hsn_code"`
	OrderedQty   decimal.Decimal `db:"ordered_qty" json:"ordered_qty"`
	Rate         decimal.Decimal `db:"rate" json:"rate"`

	Lots     []DeliveryLot `db:"-" json:"lots,omitempty"`
	Position *Position     `db:"-" json:"position,omitempty"`
}

// DeliveryLot is a scheduled sub-quantity of a PO line.
type DeliveryLot struct {
	ID           string          `db:"id" json:"id"`
	POLineID     string          `db:"po_line_id" json:"po_line_id"`
	LotNo        int             `db:"lot_no" json:"lot_no"`
	OrderedQty   decimal.Decimal `db:"ordered_qty" json:"ordered_qty"`
	DeliveryDate string          `db:"delivery_date" json:"delivery_date"`
}

// Position is the quantity ledger view of a PO line or lot.
type Position struct {
	Ordered    decimal.Decimal `json:"ordered"`
	Dispatched decimal.Decimal `json:"dispatched"`
	Invoiced   decimal.Decimal `json:"invoiced"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// DeliveryChallan records a physical dispatch against a PO.
type DeliveryChallan struct {
	DCNumber          string    `db:"dc_number" json:"dc_number"`
	DCDate            string    `db:"dc_date" json:"dc_date"`
	PONumber          string    `db:"po_number" json:"po_number"`
	DepartmentNo      string    `db:"department_no" json:"department_no"`
	ConsigneeName     string    `db:"consignee_name" json:"consignee_name"`
	ConsigneeGSTIN    string    `db:"consignee_gstin" json:"consignee_gstin"`
	ConsigneeAddress  string    `db:"consignee_address" json:"consignee_address"`
	InspectionCompany string    `db:"inspection_company" json:"inspection_company"`
	EwayBillNo        string    `db:"eway_bill_no" json:"eway_bill_no"`
	VehicleNo         string    `db:"vehicle_no" json:"vehicle_no"`
	LRNo              string    `db:"lr_no" json:"lr_no"`
	Transporter       string    `db:"transporter" json:"transporter"`
	ModeOfTransport   string    `db:"mode_of_transport" json:"mode_of_transport"`
	Remarks           string    `db:"remarks" json:"remarks"`
	OwnerID           string    `db:"owner_id" json:"owner_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`

	Lines         []DeliveryChallanLine `db:"-" json:"lines,omitempty"`
	InvoiceNumber string                `db:"-" json:"invoice_number,omitempty"`
}

// DeliveryChallanLine is the quantity dispatched against one PO line (and lot).
type DeliveryChallanLine struct {
	ID          string              `db:"id" json:"id"`
	DCNumber    string              `db:"dc_number" json:"dc_number"`
	POLineID    string              `db:"po_line_id" json:"po_line_id"`
	LotNo       *int                `db:"lot_no" json:"lot_no,omitempty"`
	DispatchQty decimal.Decimal     `db:"dispatch_qty" json:"dispatch_qty"`
	HSNCode     string              `db:"hsn_code" json:"hsn_code"`
	HSNRate     decimal.NullDecimal `db:"hsn_rate" json:"hsn_rate"`
}

// ChallanSummary is the list view of a DC.
type ChallanSummary struct {
	DCNumber      string          `db:"dc_number" json:"dc_number"`
	DCDate        string          `db:"dc_date" json:"dc_date"`
	PONumber      string          `db:"po_number" json:"po_number"`
	ConsigneeName string          `db:"consignee_name" json:"consignee_name"`
	LineCount     int             `db:"line_count" json:"line_count"`
	TotalQty      decimal.Decimal `db:"total_qty" json:"total_qty"`
	TotalValue    decimal.Decimal `db:"total_value" json:"total_value"`
	InvoiceNumber *string         `db:"invoice_number" json:"invoice_number,omitempty"`
	Status        ChallanStatus   `db:"-" json:"status"`
}

// InvoiceSourceLine is a DC line joined to its PO line, the input for invoicing.
type InvoiceSourceLine struct {
	DCLineID    string              `db:"dc_line_id"`
	POLineID    string              `db:"po_line_id"`
	LotNo       *int                `db:"lot_no"`
	Quantity    decimal.Decimal     `db:"dispatch_qty"`
	DCHSNCode   string              `db:"dc_hsn_code"`
	HSNRate     decimal.NullDecimal `db:"hsn_rate"`
	Description string              `db:"description"`
	POHSNCode   string              `db:"po_hsn_code"`
	Rate        decimal.Decimal     `db:"rate"`
}

// HSNCode resolves the HSN classification for a source line, preferring the DC snapshot.
func (l InvoiceSourceLine) HSNCode() string {
	if l.DCHSNCode != "" {
		return l.DCHSNCode
	}
	return l.POHSNCode
}

// GSTInvoice is a tax invoice raised against exactly one DC.
type GSTInvoice struct {
	InvoiceNumber  string          `db:"invoice_number" json:"invoice_number"`
	InvoiceDate    string          `db:"invoice_date" json:"invoice_date"`
	DCNumber       string          `db:"dc_number" json:"dc_number"`
	PONumber       string          `db:"po_number" json:"po_number"`
	BuyerName      string          `db:"buyer_name" json:"buyer_name"`
	BuyerGSTIN     string          `db:"buyer_gstin" json:"buyer_gstin"`
	BuyerStateCode string          `db:"buyer_state_code" json:"buyer_state_code"`
	PlaceOfSupply  string          `db:"place_of_supply" json:"place_of_supply"`
	TaxableValue   decimal.Decimal `db:"taxable_value" json:"taxable_value"`
	CGST           decimal.Decimal `db:"cgst" json:"cgst"`
	SGST           decimal.Decimal `db:"sgst" json:"sgst"`
	IGST           decimal.Decimal `db:"igst" json:"igst"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Remarks        string          `db:"remarks" json:"remarks"`
	OwnerID        string          `db:"owner_id" json:"owner_id,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`

	Lines []GSTInvoiceLine `db:"-" json:"lines,omitempty"`
}

// GSTInvoiceLine is one invoiced DC line with server-computed amounts.
type GSTInvoiceLine struct {
	ID            string          `db:"id" json:"id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	DCLineID      string          `db:"dc_line_id" json:"dc_line_id"`
	POLineID      string          `db:"po_line_id" json:"po_line_id"`
	LotNo         *int            `db:"lot_no" json:"lot_no,omitempty"`
	Description   string          `db:"description" json:"description"`
	HSNCode       string          `db:"hsn_code" json:"hsn_code"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	Rate          decimal.Decimal `db:"rate" json:"rate"`
	TaxableValue  decimal.Decimal `db:"taxable_value" json:"taxable_value"`
	CGSTRate      decimal.Decimal `db:"cgst_rate" json:"cgst_rate"`
	CGST          decimal.Decimal `db:"cgst" json:"cgst"`
	SGSTRate      decimal.Decimal `db:"sgst_rate" json:"sgst_rate"`
	SGST          decimal.Decimal `db:"sgst" json:"sgst"`
	IGSTRate      decimal.Decimal `db:"igst_rate" json:"igst_rate"`
	IGST          decimal.Decimal `db:"igst" json:"igst"`
	Total         decimal.Decimal `db:"total" json:"total"`
}

// InvoiceDCLink marks a DC as invoiced. At most one exists per DC.
type InvoiceDCLink struct {
	ID            string    `db:"id" json:"id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	DCNumber      string    `db:"dc_number" json:"dc_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SRVReceipt is the buyer's stores receipt voucher acknowledging goods against a PO.
type SRVReceipt struct {
	SRVNumber   string          `db:"srv_number" json:"srv_number"`
	SRVDate     string          `db:"srv_date" json:"srv_date"`
	PONumber    string          `db:"po_number" json:"po_number"`
	ReceivedQty decimal.Decimal `db:"received_qty" json:"received_qty"`
	AcceptedQty decimal.Decimal `db:"accepted_qty" json:"accepted_qty"`
	RejectedQty decimal.Decimal `db:"rejected_qty" json:"rejected_qty"`
	Remarks     string          `db:"remarks" json:"remarks"`
	OwnerID     string          `db:"owner_id" json:"owner_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// HSNCode is one row of the HSN/SAC rate master.
type HSNCode struct {
	Code        string          `db:"code" json:"code"`
	Description string          `db:"description" json:"description"`
	GSTRate     decimal.Decimal `db:"gst_rate" json:"gst_rate"`
}
