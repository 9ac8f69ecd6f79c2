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
)

type poRepo struct {
	q sqlx.ExtContext
}

const poColumns = `po_number, po_date, buyer_name, buyer_gstin, department_no, po_value,
	status, owner_id, created_at, updated_at`

func (r *poRepo) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	now := time.Now().UTC()
	po.CreatedAt = now
	po.UpdatedAt = now
	if po.Status == "" {
		po.Status = domain.POStatusOpen
	}

	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO purchase_orders (`+poColumns+`)
		 VALUES (:po_number, :po_date, :buyer_name, :buyer_gstin, :department_no, :po_value,
		 :status, :owner_id, :created_at, :updated_at)`, po)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("poRepo.Create: %w", domain.ErrUniqueViolation)
		}
		return fmt.Errorf("poRepo.Create: %w", err)
	}
	return nil
}

func (r *poRepo) UpdateHeader(ctx context.Context, po *domain.PurchaseOrder) error {
	po.UpdatedAt = time.Now().UTC()
	res, err := sqlx.NamedExecContext(ctx, r.q,
		`UPDATE purchase_orders SET po_date = :po_date, buyer_name = :buyer_name,
		 buyer_gstin = :buyer_gstin, department_no = :department_no, po_value = :po_value,
		 updated_at = :updated_at
		 WHERE po_number = :po_number`, po)
	if err != nil {
		return fmt.Errorf("poRepo.UpdateHeader: %w", err)
	}
	return expectAffected(res, "poRepo.UpdateHeader")
}

func (r *poRepo) GetByNumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := sqlx.GetContext(ctx, r.q, &po,
		r.q.Rebind(`SELECT `+poColumns+` FROM purchase_orders WHERE po_number = ?`), poNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("poRepo.GetByNumber: %w", err)
	}
	return &po, nil
}

func (r *poRepo) List(ctx context.Context) ([]domain.PurchaseOrder, error) {
	var pos []domain.PurchaseOrder
	err := sqlx.SelectContext(ctx, r.q, &pos,
		`SELECT `+poColumns+` FROM purchase_orders ORDER BY created_at DESC, po_number DESC`)
	if err != nil {
		return nil, fmt.Errorf("poRepo.List: %w", err)
	}
	return pos, nil
}

func (r *poRepo) UpdateStatus(ctx context.Context, poNumber string, status domain.POStatus) error {
	res, err := r.q.ExecContext(ctx,
		r.q.Rebind(`UPDATE purchase_orders SET status = ?, updated_at = ? WHERE po_number = ?`),
		status, time.Now().UTC(), poNumber)
	if err != nil {
		return fmt.Errorf("poRepo.UpdateStatus: %w", err)
	}
	return expectAffected(res, "poRepo.UpdateStatus")
}

func (r *poRepo) Delete(ctx context.Context, poNumber string) error {
	if err := r.deleteLines(ctx, poNumber); err != nil {
		return fmt.Errorf("poRepo.Delete: %w", err)
	}
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM purchase_orders WHERE po_number = ?`), poNumber)
	if err != nil {
		return fmt.Errorf("poRepo.Delete: %w", err)
	}
	return expectAffected(res, "poRepo.Delete")
}

func (r *poRepo) deleteLines(ctx context.Context, poNumber string) error {
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(
		`DELETE FROM delivery_lots WHERE po_line_id IN
		 (SELECT id FROM purchase_order_lines WHERE po_number = ?)`), poNumber); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM purchase_order_lines WHERE po_number = ?`), poNumber)
	return err
}

func (r *poRepo) ReplaceLines(ctx context.Context, poNumber string, lines []domain.PurchaseOrderLine) error {
	if err := r.deleteLines(ctx, poNumber); err != nil {
		return fmt.Errorf("poRepo.ReplaceLines: %w", err)
	}
	for i := range lines {
		line := &lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.PONumber = poNumber
		_, err := sqlx.NamedExecContext(ctx, r.q,
			`INSERT INTO purchase_order_lines (id, po_number, line_no, material_code, description,
			 unit, hsn_code, ordered_qty, rate)
			 VALUES (:id, :po_number, :line_no, :material_code, :description, :unit, :hsn_code,
			 :ordered_qty, :rate)`, line)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("poRepo.ReplaceLines: line %d: %w", line.LineNo, domain.ErrUniqueViolation)
			}
			return fmt.Errorf("poRepo.ReplaceLines: %w", err)
		}
		for j := range line.Lots {
			lot := &line.Lots[j]
			if lot.ID == "" {
				lot.ID = uuid.New().String()
			}
			lot.POLineID = line.ID
			_, err := sqlx.NamedExecContext(ctx, r.q,
				`INSERT INTO delivery_lots (id, po_line_id, lot_no, ordered_qty, delivery_date)
				 VALUES (:id, :po_line_id, :lot_no, :ordered_qty, :delivery_date)`, lot)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("poRepo.ReplaceLines: lot %d: %w", lot.LotNo, domain.ErrUniqueViolation)
				}
				return fmt.Errorf("poRepo.ReplaceLines: %w", err)
			}
		}
	}
	return nil
}

const poLineColumns = `id, po_number, line_no, material_code, description, unit, hsn_code, ordered_qty, rate`

func (r *poRepo) ListLines(ctx context.Context, poNumber string) ([]domain.PurchaseOrderLine, error) {
	var lines []domain.PurchaseOrderLine
	err := sqlx.SelectContext(ctx, r.q, &lines, r.q.Rebind(
		`SELECT `+poLineColumns+` FROM purchase_order_lines WHERE po_number = ? ORDER BY line_no`), poNumber)
	if err != nil {
		return nil, fmt.Errorf("poRepo.ListLines: %w", err)
	}

	var lots []domain.DeliveryLot
	err = sqlx.SelectContext(ctx, r.q, &lots, r.q.Rebind(
		`SELECT dl.id, dl.po_line_id, dl.lot_no, dl.ordered_qty, dl.delivery_date
		 FROM delivery_lots dl
		 JOIN purchase_order_lines pl ON pl.id = dl.po_line_id
		 WHERE pl.po_number = ?
		 ORDER BY dl.lot_no`), poNumber)
	if err != nil {
		return nil, fmt.Errorf("poRepo.ListLines: lots: %w", err)
	}

	byLine := make(map[string][]domain.DeliveryLot, len(lines))
	for _, lot := range lots {
		byLine[lot.POLineID] = append(byLine[lot.POLineID], lot)
	}
	for i := range lines {
		lines[i].Lots = byLine[lines[i].ID]
	}
	return lines, nil
}

func (r *poRepo) GetLine(ctx context.Context, lineID string) (*domain.PurchaseOrderLine, error) {
	var line domain.PurchaseOrderLine
	err := sqlx.GetContext(ctx, r.q, &line, r.q.Rebind(
		`SELECT `+poLineColumns+` FROM purchase_order_lines WHERE id = ?`), lineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("poRepo.GetLine: %w", err)
	}
	return &line, nil
}

func (r *poRepo) CountLots(ctx context.Context, lineID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(
		`SELECT COUNT(*) FROM delivery_lots WHERE po_line_id = ?`), lineID)
	if err != nil {
		return 0, fmt.Errorf("poRepo.CountLots: %w", err)
	}
	return n, nil
}

func (r *poRepo) GetLot(ctx context.Context, lineID string, lotNo int) (*domain.DeliveryLot, error) {
	var lot domain.DeliveryLot
	err := sqlx.GetContext(ctx, r.q, &lot, r.q.Rebind(
		`SELECT id, po_line_id, lot_no, ordered_qty, delivery_date
		 FROM delivery_lots WHERE po_line_id = ? AND lot_no = ?`), lineID, lotNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("poRepo.GetLot: %w", err)
	}
	return &lot, nil
}

func (r *poRepo) CountDependents(ctx context.Context, poNumber string) (challans, receipts int, err error) {
	if err = sqlx.GetContext(ctx, r.q, &challans, r.q.Rebind(
		`SELECT COUNT(*) FROM delivery_challans WHERE po_number = ?`), poNumber); err != nil {
		return 0, 0, fmt.Errorf("poRepo.CountDependents: challans: %w", err)
	}
	if err = sqlx.GetContext(ctx, r.q, &receipts, r.q.Rebind(
		`SELECT COUNT(*) FROM srv_receipts WHERE po_number = ?`), poNumber); err != nil {
		return 0, 0, fmt.Errorf("poRepo.CountDependents: receipts: %w", err)
	}
	return challans, receipts, nil
}

// expectAffected maps a zero-row update or delete to domain.ErrNotFound.
func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
