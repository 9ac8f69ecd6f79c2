package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"senstosales/internal/domain"
	"senstosales/internal/port"
)

type invoiceRepo struct {
	q sqlx.ExtContext
}

const invoiceColumns = `invoice_number, invoice_date, dc_number, po_number, buyer_name, buyer_gstin,
	buyer_state_code, place_of_supply, taxable_value, cgst, sgst, igst, total, remarks,
	owner_id, created_at, updated_at`

const invoiceLineColumns = `id, invoice_number, dc_line_id, po_line_id, lot_no, description, hsn_code,
	quantity, rate, taxable_value, cgst_rate, cgst, sgst_rate, sgst, igst_rate, igst, total`

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.GSTInvoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO gst_invoices (`+invoiceColumns+`)
		 VALUES (:invoice_number, :invoice_date, :dc_number, :po_number, :buyer_name, :buyer_gstin,
		 :buyer_state_code, :place_of_supply, :taxable_value, :cgst, :sgst, :igst, :total, :remarks,
		 :owner_id, :created_at, :updated_at)`, inv)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoiceRepo.Create: %w", domain.ErrUniqueViolation)
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}

	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.ID = uuid.New().String()
		line.InvoiceNumber = inv.InvoiceNumber
		_, err := sqlx.NamedExecContext(ctx, r.q,
			`INSERT INTO gst_invoice_lines (`+invoiceLineColumns+`)
			 VALUES (:id, :invoice_number, :dc_line_id, :po_line_id, :lot_no, :description, :hsn_code,
			 :quantity, :rate, :taxable_value, :cgst_rate, :cgst, :sgst_rate, :sgst, :igst_rate, :igst, :total)`,
			line)
		if err != nil {
			return fmt.Errorf("invoiceRepo.Create: line %d: %w", i+1, err)
		}
	}

	link := domain.InvoiceDCLink{
		ID:            uuid.New().String(),
		InvoiceNumber: inv.InvoiceNumber,
		DCNumber:      inv.DCNumber,
		CreatedAt:     now,
	}
	_, err = sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO invoice_dc_links (id, invoice_number, dc_number, created_at)
		 VALUES (:id, :invoice_number, :dc_number, :created_at)`, link)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoiceRepo.Create: link: %w", domain.ErrUniqueViolation)
		}
		return fmt.Errorf("invoiceRepo.Create: link: %w", err)
	}
	return nil
}

func (r *invoiceRepo) Exists(ctx context.Context, invoiceNumber string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(
		`SELECT COUNT(*) FROM gst_invoices WHERE invoice_number = ?`), invoiceNumber)
	if err != nil {
		return false, fmt.Errorf("invoiceRepo.Exists: %w", err)
	}
	return n > 0, nil
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.GSTInvoice, error) {
	var inv domain.GSTInvoice
	err := sqlx.GetContext(ctx, r.q, &inv, r.q.Rebind(
		`SELECT `+invoiceColumns+` FROM gst_invoices WHERE invoice_number = ?`), invoiceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByNumber: %w", err)
	}

	err = sqlx.SelectContext(ctx, r.q, &inv.Lines, r.q.Rebind(
		`SELECT `+invoiceLineColumns+` FROM gst_invoice_lines WHERE invoice_number = ?
		 ORDER BY po_line_id, lot_no, id`), invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByNumber: lines: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.GSTInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM gst_invoices WHERE 1 = 1`
	var args []any
	if filter.PONumber != "" {
		query += ` AND po_number = ?`
		args = append(args, filter.PONumber)
	}
	if filter.DCNumber != "" {
		query += ` AND dc_number = ?`
		args = append(args, filter.DCNumber)
	}
	query += ` ORDER BY created_at DESC, invoice_number DESC`

	var out []domain.GSTInvoice
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return out, nil
}

func (r *invoiceRepo) LinkedInvoice(ctx context.Context, dcNumber string) (string, error) {
	var number string
	err := sqlx.GetContext(ctx, r.q, &number, r.q.Rebind(
		`SELECT invoice_number FROM invoice_dc_links WHERE dc_number = ?`), dcNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("invoiceRepo.LinkedInvoice: %w", err)
	}
	return number, nil
}

func (r *invoiceRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.q, "gst_invoices", "invoice_number", prefix)
}
