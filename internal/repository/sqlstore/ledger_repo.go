package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"senstosales/internal/domain"
)

type ledgerRepo struct {
	q sqlx.ExtContext
}

func (r *ledgerRepo) Ordered(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error) {
	var ordered decimal.Decimal
	var err error
	if lotNo == nil {
		err = sqlx.GetContext(ctx, r.q, &ordered,
			r.q.Rebind(`SELECT ordered_qty FROM purchase_order_lines WHERE id = ?`), lineID)
	} else {
		err = sqlx.GetContext(ctx, r.q, &ordered,
			r.q.Rebind(`SELECT ordered_qty FROM delivery_lots WHERE po_line_id = ? AND lot_no = ?`), lineID, *lotNo)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("ledgerRepo.Ordered: %w", err)
	}
	return ordered, nil
}

func (r *ledgerRepo) Dispatched(ctx context.Context, lineID string, lotNo *int, excludingDC string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(dispatch_qty), 0) FROM delivery_challan_lines WHERE po_line_id = ?`
	args := []any{lineID}
	if lotNo != nil {
		query += ` AND lot_no = ?`
		args = append(args, *lotNo)
	}
	if excludingDC != "" {
		query += ` AND dc_number <> ?`
		args = append(args, excludingDC)
	}

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, r.q, &total, r.q.Rebind(query), args...); err != nil {
		return decimal.Zero, fmt.Errorf("ledgerRepo.Dispatched: %w", err)
	}
	return total, nil
}

func (r *ledgerRepo) Invoiced(ctx context.Context, lineID string, lotNo *int) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM gst_invoice_lines WHERE po_line_id = ?`
	args := []any{lineID}
	if lotNo != nil {
		query += ` AND lot_no = ?`
		args = append(args, *lotNo)
	}

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, r.q, &total, r.q.Rebind(query), args...); err != nil {
		return decimal.Zero, fmt.Errorf("ledgerRepo.Invoiced: %w", err)
	}
	return total, nil
}
