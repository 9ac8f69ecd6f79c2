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
	"senstosales/internal/sequence"
)

type challanRepo struct {
	q sqlx.ExtContext
}

const challanColumns = `dc_number, dc_date, po_number, department_no, consignee_name, consignee_gstin,
	consignee_address, inspection_company, eway_bill_no, vehicle_no, lr_no, transporter,
	mode_of_transport, remarks, owner_id, created_at, updated_at`

func (r *challanRepo) Create(ctx context.Context, dc *domain.DeliveryChallan) error {
	now := time.Now().UTC()
	dc.CreatedAt = now
	dc.UpdatedAt = now

	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO delivery_challans (`+challanColumns+`)
		 VALUES (:dc_number, :dc_date, :po_number, :department_no, :consignee_name, :consignee_gstin,
		 :consignee_address, :inspection_company, :eway_bill_no, :vehicle_no, :lr_no, :transporter,
		 :mode_of_transport, :remarks, :owner_id, :created_at, :updated_at)`, dc)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("challanRepo.Create: %w", domain.ErrUniqueViolation)
		}
		return fmt.Errorf("challanRepo.Create: %w", err)
	}
	if err := r.insertLines(ctx, dc.DCNumber, dc.Lines); err != nil {
		return fmt.Errorf("challanRepo.Create: %w", err)
	}
	return nil
}

func (r *challanRepo) UpdateHeader(ctx context.Context, dc *domain.DeliveryChallan) error {
	dc.UpdatedAt = time.Now().UTC()
	res, err := sqlx.NamedExecContext(ctx, r.q,
		`UPDATE delivery_challans SET dc_date = :dc_date, po_number = :po_number,
		 department_no = :department_no, consignee_name = :consignee_name,
		 consignee_gstin = :consignee_gstin, consignee_address = :consignee_address,
		 inspection_company = :inspection_company, eway_bill_no = :eway_bill_no,
		 vehicle_no = :vehicle_no, lr_no = :lr_no, transporter = :transporter,
		 mode_of_transport = :mode_of_transport, remarks = :remarks, updated_at = :updated_at
		 WHERE dc_number = :dc_number`, dc)
	if err != nil {
		return fmt.Errorf("challanRepo.UpdateHeader: %w", err)
	}
	return expectAffected(res, "challanRepo.UpdateHeader")
}

func (r *challanRepo) ReplaceLines(ctx context.Context, dcNumber string, lines []domain.DeliveryChallanLine) error {
	if _, err := r.q.ExecContext(ctx,
		r.q.Rebind(`DELETE FROM delivery_challan_lines WHERE dc_number = ?`), dcNumber); err != nil {
		return fmt.Errorf("challanRepo.ReplaceLines: %w", err)
	}
	if err := r.insertLines(ctx, dcNumber, lines); err != nil {
		return fmt.Errorf("challanRepo.ReplaceLines: %w", err)
	}
	return nil
}

func (r *challanRepo) insertLines(ctx context.Context, dcNumber string, lines []domain.DeliveryChallanLine) error {
	for i := range lines {
		line := &lines[i]
		line.ID = uuid.New().String()
		line.DCNumber = dcNumber
		_, err := sqlx.NamedExecContext(ctx, r.q,
			`INSERT INTO delivery_challan_lines (id, dc_number, po_line_id, lot_no, dispatch_qty, hsn_code, hsn_rate)
			 VALUES (:id, :dc_number, :po_line_id, :lot_no, :dispatch_qty, :hsn_code, :hsn_rate)`, line)
		if err != nil {
			return fmt.Errorf("inserting line %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *challanRepo) GetByNumber(ctx context.Context, dcNumber string) (*domain.DeliveryChallan, error) {
	var dc domain.DeliveryChallan
	err := sqlx.GetContext(ctx, r.q, &dc, r.q.Rebind(
		`SELECT `+challanColumns+` FROM delivery_challans WHERE dc_number = ?`), dcNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("challanRepo.GetByNumber: %w", err)
	}

	err = sqlx.SelectContext(ctx, r.q, &dc.Lines, r.q.Rebind(
		`SELECT l.id, l.dc_number, l.po_line_id, l.lot_no, l.dispatch_qty, l.hsn_code, l.hsn_rate
		 FROM delivery_challan_lines l
		 JOIN purchase_order_lines pl ON pl.id = l.po_line_id
		 WHERE l.dc_number = ?
		 ORDER BY pl.line_no, l.lot_no, l.id`), dcNumber)
	if err != nil {
		return nil, fmt.Errorf("challanRepo.GetByNumber: lines: %w", err)
	}

	invoice, err := (&invoiceRepo{q: r.q}).LinkedInvoice(ctx, dcNumber)
	if err != nil {
		return nil, fmt.Errorf("challanRepo.GetByNumber: %w", err)
	}
	dc.InvoiceNumber = invoice
	return &dc, nil
}

func (r *challanRepo) Exists(ctx context.Context, dcNumber string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(
		`SELECT COUNT(*) FROM delivery_challans WHERE dc_number = ?`), dcNumber)
	if err != nil {
		return false, fmt.Errorf("challanRepo.Exists: %w", err)
	}
	return n > 0, nil
}

func (r *challanRepo) List(ctx context.Context, filter port.ChallanFilter) ([]domain.ChallanSummary, error) {
	query := `SELECT dc.dc_number, dc.dc_date, dc.po_number, dc.consignee_name,
		COUNT(l.id) AS line_count,
		COALESCE(SUM(l.dispatch_qty), 0) AS total_qty,
		COALESCE(SUM(l.dispatch_qty * pl.rate), 0) AS total_value,
		lk.invoice_number
		FROM delivery_challans dc
		LEFT JOIN delivery_challan_lines l ON l.dc_number = dc.dc_number
		LEFT JOIN purchase_order_lines pl ON pl.id = l.po_line_id
		LEFT JOIN invoice_dc_links lk ON lk.dc_number = dc.dc_number
		WHERE 1 = 1`
	var args []any
	if filter.PONumber != "" {
		query += ` AND dc.po_number = ?`
		args = append(args, filter.PONumber)
	}
	if filter.PendingOnly {
		query += ` AND lk.id IS NULL`
	}
	query += ` GROUP BY dc.dc_number, dc.dc_date, dc.po_number, dc.consignee_name, dc.created_at, lk.invoice_number
		ORDER BY dc.created_at DESC, dc.dc_number DESC`

	var out []domain.ChallanSummary
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("challanRepo.List: %w", err)
	}
	for i := range out {
		out[i].TotalQty = out[i].TotalQty.Round(3)
		out[i].TotalValue = out[i].TotalValue.Round(2)
		out[i].Status = domain.ChallanStatusPending
		if out[i].InvoiceNumber != nil {
			out[i].Status = domain.ChallanStatusInvoiced
		}
	}
	return out, nil
}

func (r *challanRepo) Delete(ctx context.Context, dcNumber string) error {
	if _, err := r.q.ExecContext(ctx,
		r.q.Rebind(`DELETE FROM delivery_challan_lines WHERE dc_number = ?`), dcNumber); err != nil {
		return fmt.Errorf("challanRepo.Delete: %w", err)
	}
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM delivery_challans WHERE dc_number = ?`), dcNumber)
	if err != nil {
		return fmt.Errorf("challanRepo.Delete: %w", err)
	}
	return expectAffected(res, "challanRepo.Delete")
}

func (r *challanRepo) InvoiceSourceLines(ctx context.Context, dcNumber string) ([]domain.InvoiceSourceLine, error) {
	var lines []domain.InvoiceSourceLine
	err := sqlx.SelectContext(ctx, r.q, &lines, r.q.Rebind(
		`SELECT l.id AS dc_line_id, l.po_line_id, l.lot_no, l.dispatch_qty,
		 l.hsn_code AS dc_hsn_code, l.hsn_rate,
		 pl.description, pl.hsn_code AS po_hsn_code, pl.rate
		 FROM delivery_challan_lines l
		 JOIN purchase_order_lines pl ON pl.id = l.po_line_id
		 WHERE l.dc_number = ?
		 ORDER BY pl.line_no, l.lot_no, l.id`), dcNumber)
	if err != nil {
		return nil, fmt.Errorf("challanRepo.InvoiceSourceLines: %w", err)
	}
	return lines, nil
}

func (r *challanRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.q, "delivery_challans", "dc_number", prefix)
}

// lastNumber returns the identifier in table.column with the highest numeric
// counter after prefix. Identifiers with a non-numeric suffix are skipped so
// that a hand-entered number never hides the counter.
func lastNumber(ctx context.Context, q sqlx.ExtContext, table, column, prefix string) (string, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, q, &ids, q.Rebind(fmt.Sprintf(
		`SELECT %[2]s FROM %[1]s WHERE %[2]s LIKE ?`, table, column)), prefix+"%")
	if err != nil {
		return "", fmt.Errorf("lastNumber %s: %w", table, err)
	}

	last, best := "", -1
	for _, id := range ids {
		if n, ok := sequence.Counter(id, prefix); ok && n > best {
			last, best = id, n
		}
	}
	return last, nil
}
